// Standalone mock Admin API. Run with: go run ./cmd/adminmock
// then point the CLI at it with --endpoint http://localhost:8080/admin/api/2025-07/graphql.json
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"shopify.GO/config"
	"shopify.GO/graphqlserver"
)

func main() {
	_ = godotenv.Load()
	config.LoadAppConfig()

	logger, err := config.NewLogger(config.AppConfig.LogLevel, config.AppConfig.LogFormat)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer logger.Sync()

	token := os.Getenv("MOCK_TOKEN")
	if token == "" {
		token = graphqlserver.DefaultToken
	}
	srv, err := graphqlserver.New(graphqlserver.WithToken(token), graphqlserver.WithLogger(logger))
	if err != nil {
		log.Fatal("mock admin:", err)
	}
	if n, err := strconv.Atoi(os.Getenv("MOCK_SEED")); err == nil && n > 0 {
		srv.Store().Seed(n)
	}

	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "doom", "larry3d", "puffy"}
	fig := figure.NewFigure("Admin mock", fonts[rand.Intn(len(fonts))], true)
	fig.Print()
	fmt.Println("Standalone Shopify Admin API mock")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("GraphQL at http://localhost:%s/admin/api/%s/graphql.json  token %s", port, config.DefaultAPIVersion, token)
	log.Fatal(srv.Start(":" + port))
}
