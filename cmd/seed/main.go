// Command seed registers members from a CSV file.
//
// Usage: seed members.csv
//
// The header row names the columns: email, password, full_name, phone,
// address, koperasi_id and an optional status.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kopdigital/koperasi-backend/internal/config"
	"github.com/kopdigital/koperasi-backend/internal/models"
	mongorepo "github.com/kopdigital/koperasi-backend/internal/repositories/mongodb"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/jwt"
	"github.com/kopdigital/koperasi-backend/pkg/logger"
	"github.com/kopdigital/koperasi-backend/pkg/mongodb"
	"go.uber.org/zap"
)

var requiredColumns = []string{"email", "password", "full_name", "phone", "koperasi_id"}

// statusSetter changes a member's status after registration.
type statusSetter interface {
	UpdateStatus(ctx context.Context, memberID string, status models.MemberStatus) (*models.Member, error)
}

type importResult struct {
	Created int
	Skipped int
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.New(logger.Options{AppEnv: cfg.AppEnv, AppName: cfg.AppName + "-seed", Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.ConnectTimeout)
	if err != nil {
		zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database()
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		zlog.Fatal("failed to ensure indexes", zap.Error(err))
	}

	memberRepo := mongorepo.NewMemberRepository(db)
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
	auth := services.NewAuthService(mongorepo.NewUserRepository(db), memberRepo, tokens, services.NopNotifier{})
	members := services.NewMemberService(memberRepo, services.NopNotifier{})

	file, err := os.Open(os.Args[1])
	if err != nil {
		zlog.Fatal("failed to open CSV file", zap.Error(err))
	}
	defer file.Close()

	result, err := importMembers(ctx, file, auth, members)
	if err != nil {
		zlog.Fatal("failed to import members", zap.Error(err))
	}
	zlog.Info("members imported", zap.Int("created", result.Created), zap.Int("skipped", result.Skipped))
}

// importMembers registers one member per CSV row. Rows that fail are logged
// and skipped.
func importMembers(ctx context.Context, r io.Reader, auth services.AuthService, members statusSetter) (importResult, error) {
	var result importResult

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return result, errors.New("CSV file is empty")
		}
		return result, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return result, fmt.Errorf("CSV header is missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			zap.L().Warn("skipping malformed CSV row", zap.Int("line", line), zap.Error(err))
			result.Skipped++
			continue
		}

		member, err := auth.Register(ctx, &models.RegisterRequest{
			Email:      field(record, "email"),
			Password:   field(record, "password"),
			FullName:   field(record, "full_name"),
			Phone:      field(record, "phone"),
			Address:    field(record, "address"),
			KoperasiID: field(record, "koperasi_id"),
		})
		if err != nil {
			zap.L().Warn("skipping CSV row", zap.Int("line", line), zap.Error(err))
			result.Skipped++
			continue
		}

		if status := models.MemberStatus(strings.ToLower(field(record, "status"))); status != "" && status != member.Status {
			if _, err := members.UpdateStatus(ctx, member.ID.Hex(), status); err != nil {
				zap.L().Warn("member created but status not applied",
					zap.Int("line", line),
					zap.String("member_id", member.ID.Hex()),
					zap.Error(err),
				)
			}
		}
		result.Created++
	}
	return result, nil
}
