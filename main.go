package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bearcare-backend/chat"
	"bearcare-backend/conn"
	"bearcare-backend/migrations"
	"bearcare-backend/openai"
	"bearcare-backend/patients"
	"bearcare-backend/records"
	"bearcare-backend/reports"
	"bearcare-backend/search"
	"bearcare-backend/uploads"
)

func main() {
	_ = godotenv.Load()

	db, err := conn.NewMySQL()
	if err != nil {
		log.Fatalf("[main][db][fail] %v", err)
	}
	migrations.Init(db)
	if err := migrations.Migrate(); err != nil {
		log.Fatalf("[main][migrate][fail] %v", err)
	}

	patientRepo := patients.NewRepository(db)
	recordRepo := records.NewRepository(db)
	uploadRepo := uploads.NewRepository(db)

	ai := openai.NewClient()
	searcher := search.New(os.Getenv("SERPAPI_KEY"))
	if !searcher.Enabled() {
		log.Printf("[main][search] SERPAPI_KEY missing; suggestion citations disabled")
	}

	assembler := chat.NewContextAssembler(patientRepo, recordRepo)
	suggest := chat.NewSuggestPipeline(ai, searcher)

	r := gin.Default()
	patients.NewHandler(patientRepo).RegisterRoutes(r)
	records.NewHandler(recordRepo).RegisterRoutes(r)
	uploads.NewHandler(uploadRepo, patientRepo, recordRepo).RegisterRoutes(r)
	chat.NewHandler(ai, assembler, suggest).RegisterRoutes(r)
	reports.NewHandler(ai).RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[main][serve][fail] %v", err)
	}
}
