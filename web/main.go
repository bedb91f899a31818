package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-rtiow/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	webServer := server.NewServer(*port)

	log.Printf("Ray Tracing in One Weekend Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=materials&width=400&height=200", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
