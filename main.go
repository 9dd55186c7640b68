package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"linksafety/analyzer"
	"linksafety/history"
	"linksafety/riskscore"
	"linksafety/safebrowse"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	rules := riskscore.DefaultRules()
	if path := os.Getenv("SCORING_RULES"); path != "" {
		loaded, err := riskscore.LoadRules(path)
		if err != nil {
			log.Fatalf("load scoring rules: %v", err)
		}
		rules = loaded
		log.Printf("[config] scoring rules loaded from %s", path)
	}

	apiKey := os.Getenv("GOOGLE_SAFE_BROWSING_API_KEY")
	if apiKey == "" {
		log.Println("⚠️ GOOGLE_SAFE_BROWSING_API_KEY not set - verdicts will be heuristic-only")
	}

	dbPath := os.Getenv("HISTORY_DB")
	if dbPath == "" {
		dbPath = "linksafety.db"
	}
	store, err := history.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	h := &analyzer.Handlers{
		Analyzer:           analyzer.New(safebrowse.NewClient(apiKey), riskscore.New(rules)),
		History:            store,
		EnrichRegistration: os.Getenv("WHOIS_ENRICHMENT") != "off",
	}

	http.HandleFunc("/analyze", h.AnalyzeHandler)
	http.HandleFunc("/batch", h.BatchHandler)
	http.HandleFunc("/history", h.HistoryHandler)
	http.HandleFunc("/export", h.ExportHandler)

	log.Printf("✅ linksafety service listening on :%s\n", port)
	log.Println("📍 Endpoints:")
	log.Println("   POST /analyze - Single URL verdict")
	log.Println("   POST /batch   - Batch analysis")
	log.Println("   GET  /history - Recent scans")
	log.Println("   GET  /export  - Export recent scans (json, csv, text)")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}
