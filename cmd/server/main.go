package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/graph"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/llm"
	"github.com/inkweave/inkgraph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v, using defaults", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	lex, err := lexicon.Load(cfg.Data.LexiconDir)
	if err != nil {
		log.Fatalf("Failed to load lexicons: %v", err)
	}

	driver, err := graph.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
	if err != nil {
		log.Fatalf("Failed to connect to graph store: %v", err)
	}
	defer driver.Close(context.Background())

	if err := driver.BuildIndices(context.Background()); err != nil {
		log.Printf("Warning: index creation failed: %v", err)
	}

	srv := server.New(cfg, lex, graph.NewStore(driver))

	if cfg.LLM.Enabled {
		client, err := llm.NewClient(context.Background(), cfg.LLM)
		if err != nil {
			log.Printf("Warning: LLM enrichment disabled: %v", err)
		} else {
			srv.SetEnricher(llm.NewEnricher(client))
		}
	}

	r := srv.SetupRouter()
	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
