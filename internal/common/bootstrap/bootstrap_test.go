package bootstrap_test

import (
	"context"
	"io"
	"testing"

	"github.com/AlibekovAA/user-registry/internal/common/bootstrap"
	"github.com/AlibekovAA/user-registry/internal/common/config"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	userrepo "github.com/AlibekovAA/user-registry/internal/user/repository"
)

func TestParseStoreKind(t *testing.T) {
	testCases := []struct {
		value   string
		want    bootstrap.StoreKind
		wantErr bool
	}{
		{"postgres", bootstrap.StorePostgres, false},
		{"memory", bootstrap.StoreMemory, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			got, err := bootstrap.ParseStoreKind(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNewApp_MemoryStore(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "info")

	app, err := bootstrap.NewApp(context.Background(), log, config.UsersConfig{}, bootstrap.Options{Store: bootstrap.StoreMemory})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer app.Close()

	if _, ok := app.UserRepo.(*userrepo.MemoryRepository); !ok {
		t.Errorf("expected memory repository, got %T", app.UserRepo)
	}
	if app.Pool != nil {
		t.Error("expected no database pool")
	}
	if len(app.HealthChecks) != 0 {
		t.Errorf("expected no health checks, got %d", len(app.HealthChecks))
	}
}
