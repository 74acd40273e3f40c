// Command importer loads ingredients from a "name,measurement_unit" CSV file.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"foodgram/internal/config"
	"foodgram/internal/model"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse config")
	}

	path := flag.String("file", cfg.IngredientsCSV, "path to the ingredients csv")
	flag.Parse()

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialise repository")
	}

	f, err := os.Open(*path)
	if err != nil {
		logrus.WithError(err).WithField("file", *path).Fatal("failed to open ingredients file")
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	parsed, created, err := model.ImportIngredients(ctx, repo, f)
	if err != nil {
		logrus.WithError(err).WithField("file", *path).Error("failed to import ingredients")
		return
	}
	logrus.WithFields(logrus.Fields{
		"file":    *path,
		"parsed":  parsed,
		"created": created,
	}).Info("ingredients imported")
}
