package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"wayfarer/cmd/app"
	"wayfarer/internal/config"
	handlers "wayfarer/internal/handler"
	"wayfarer/internal/middleware"
	"wayfarer/pkg/log"
)

func main() {
	cfg := config.LoadConfig()
	logger := log.New(cfg.Env)

	if cfg.JWTSecretKey == "" {
		logger.Fatal().Msg("JWT_SECRET_KEY is not set")
	}

	db, store, services, err := app.App(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, store, cfg, logger)

	router := mux.NewRouter()
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// public auth routes
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", handler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", handler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", handler.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/logout", handler.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/social-login", handler.SocialLogin).Methods(http.MethodPost)
	auth.HandleFunc("/request-reset", handler.RequestPasswordReset).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", handler.ResetPassword).Methods(http.MethodPost)
	auth.HandleFunc("/validate-reset-token/{token}", handler.ValidateResetToken).Methods(http.MethodGet)

	// profile routes behind the auth gate
	authGate := middleware.Auth(services.Auth)
	auth.Handle("/me", authGate(http.HandlerFunc(handler.Me))).Methods(http.MethodGet)
	auth.Handle("/me", authGate(http.HandlerFunc(handler.UpdateMe))).Methods(http.MethodPut)

	// uploads and file access
	router.HandleFunc("/file/upload", handler.UploadFile).Methods(http.MethodPost)
	router.HandleFunc("/file-access/{filename}", handler.ServeFile).Methods(http.MethodGet)

	// public post reads
	router.HandleFunc("/posts", handler.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/posts/{id}", handler.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/posts/{id}/comments", handler.GetComments).Methods(http.MethodGet)

	// protected resource routes
	protected := router.PathPrefix("").Subrouter()
	protected.Use(mux.MiddlewareFunc(authGate))
	protected.HandleFunc("/posts", handler.CreatePost).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{id}", handler.UpdatePost).Methods(http.MethodPut)
	protected.HandleFunc("/posts/{id}", handler.DeletePost).Methods(http.MethodDelete)
	protected.HandleFunc("/posts/{id}/comments", handler.CreateComment).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{id}/comments/{commentId}", handler.DeleteComment).Methods(http.MethodDelete)
	protected.HandleFunc("/posts/{id}/like", handler.LikePost).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{id}/like", handler.UnlikePost).Methods(http.MethodDelete)
	protected.HandleFunc("/trips", handler.CreateTrip).Methods(http.MethodPost)
	protected.HandleFunc("/trips", handler.GetTrips).Methods(http.MethodGet)
	protected.HandleFunc("/trips/{id}", handler.GetTrip).Methods(http.MethodGet)
	protected.HandleFunc("/trips/{id}", handler.UpdateTrip).Methods(http.MethodPut)
	protected.HandleFunc("/trips/{id}", handler.DeleteTrip).Methods(http.MethodDelete)
	protected.HandleFunc("/wishlist", handler.AddToWishlist).Methods(http.MethodPost)
	protected.HandleFunc("/wishlist", handler.GetWishlist).Methods(http.MethodGet)
	protected.HandleFunc("/wishlist/{postId}", handler.RemoveFromWishlist).Methods(http.MethodDelete)

	handlerChain := middleware.Chain(
		router,
		middleware.CORS(cfg.CORSOrigin),
		middleware.Logging(logger),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handlerChain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.ServerPort).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}

	logger.Info().Msg("server stopped")
}
