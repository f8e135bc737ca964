package di

import (
	"testing"

	"github.com/goliatone/go-content-bot/internal/logging/gologger"
	"github.com/goliatone/go-content-bot/internal/runtimeconfig"
)

func TestContainerBuildsGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"
	cfg.Logging.Redact = []string{"url"}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if _, masked := provider.Redacts()["url"]; !masked {
		t.Fatal("expected configured redact key to reach the provider")
	}
	if _, masked := provider.Redacts()["text"]; masked {
		t.Fatal("expected explicit redact list to replace the defaults")
	}
	if provider.GetLogger("bot.flows") == nil {
		t.Fatal("expected module logger from go-logger provider")
	}
}
