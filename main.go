package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"membersonly/auth"
	"membersonly/config"
	"membersonly/db"
	"membersonly/handlers"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx := context.Background()
	db.InitDB(ctx)
	defer db.Close(ctx)

	if err := auth.InitStore(); err != nil {
		log.Fatalf("Error connecting session store: %v", err)
	}
	defer auth.CloseStore()

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Register application handlers
	handlers.RegisterHandlers(mux)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.ListenIP, config.AppConfig.ListenPort)
	log.Printf("Server starting on %s (%s)", addr, config.AppConfig.AppName)

	handler := handlers.RecoverMiddleware(handlers.SecurityHeadersMiddleware(mux))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
