// Command seed loads a directory of exported site data into the configured
// store. Files that are absent are skipped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/bootstrap"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/config"
	"github.com/noah-isme/school-site-api/pkg/logger"
	"github.com/noah-isme/school-site-api/pkg/validation"
)

// collections seeded from <name>.json. A JSON array is appended with new
// keys; a JSON object replaces the collection keyed as given.
var collections = []models.Collection{
	models.CollectionNews,
	models.CollectionEvents,
	models.CollectionGallery,
	models.CollectionAnnouncements,
	models.CollectionToppers,
	models.CollectionTestimonials,
	models.CollectionFAQ,
}

var documents = map[string]string{
	"site-settings.json":            models.PathSiteSettings,
	"public-results-metadata.json": models.PathPublicResultsMetadata,
}

func main() {
	dataDir := flag.String("data", "data", "directory holding the seed files")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall time limit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := seed(ctx, cfg, *dataDir, logr); err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}
	logr.Info("seed complete", zap.String("dir", *dataDir))
}

func seed(ctx context.Context, cfg *config.Config, dir string, logr *zap.Logger) error {
	backend, err := bootstrap.OpenBackend(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	repo := repository.NewContentRepository(backend.Store, logr)
	cache := service.NewCacheService(nil, nil, 0, logr, false)
	writer := service.NewContentWriter(repo, nil, cache, nil, nil, validation.New(), logr)
	imports := service.NewImportService(writer, 0)

	rosters := []struct {
		file   string
		target service.ImportTarget
	}{
		{"teachers.csv", service.TeacherImport},
		{"students.csv", service.StudentImport},
	}
	for _, roster := range rosters {
		upload, err := readUpload(dir, roster.file)
		if err != nil {
			return err
		}
		if upload == nil {
			continue
		}
		res, err := imports.ImportFile(ctx, upload, roster.target)
		if err != nil {
			return fmt.Errorf("%s: %w", roster.file, err)
		}
		logr.Info("roster imported", zap.String("file", roster.file), zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped))
	}

	upload, err := readUpload(dir, "report-cards.json")
	if err != nil {
		return err
	}
	if upload != nil {
		res, err := imports.ImportResults(ctx, upload)
		if err != nil {
			return fmt.Errorf("report-cards.json: %w", err)
		}
		logr.Info("report cards imported", zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped))
	}

	for _, collection := range collections {
		if err := seedCollection(ctx, repo, dir, collection, logr); err != nil {
			return err
		}
	}

	for file, path := range documents {
		var doc map[string]interface{}
		found, err := readJSON(dir, file, &doc)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := repo.SetDocument(ctx, path, doc); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		logr.Info("document seeded", zap.String("path", path))
	}
	return nil
}

func seedCollection(ctx context.Context, repo *repository.ContentRepository, dir string, collection models.Collection, logr *zap.Logger) error {
	file := string(collection) + ".json"
	var raw json.RawMessage
	found, err := readJSON(dir, file, &raw)
	if err != nil || !found {
		return err
	}

	var keyed map[string]interface{}
	if err := json.Unmarshal(raw, &keyed); err == nil {
		if err := repo.Replace(ctx, collection.Path(), keyed); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		logr.Info("collection replaced", zap.String("collection", string(collection)), zap.Int("records", len(keyed)))
		return nil
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("%s: expected an array or object of records", file)
	}
	for i, record := range list {
		delete(record, "id")
		if _, err := repo.Create(ctx, collection.Path(), record); err != nil {
			return fmt.Errorf("%s record %d: %w", file, i, err)
		}
	}
	logr.Info("collection appended", zap.String("collection", string(collection)), zap.Int("records", len(list)))
	return nil
}

func readJSON(dir, file string, dest interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("%s: %w", file, err)
	}
	return true, nil
}

func readUpload(dir, file string) (*service.Upload, error) {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: file, Data: data}, nil
}
