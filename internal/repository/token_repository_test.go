package repository

import (
	"testing"

	"biasbuster-backend/internal/domain"
)

func TestTokenCategoryFiltering(t *testing.T) {
	repo := NewTokenRepository()
	repo.RegisterToken("everything", "android", nil, 1)
	repo.RegisterToken("wildcard", "android", []domain.Category{"ALL"}, 2)
	repo.RegisterToken("forex-only", "ios", []domain.Category{domain.CategoryForex}, 3)
	repo.RegisterToken("crypto-only", "android", []domain.Category{domain.CategoryCryptoScalping}, 4)

	forex := repo.TokensForCategory(domain.CategoryForex)
	if len(forex) != 3 {
		t.Fatalf("Expected 3 forex subscribers, got %d: %v", len(forex), forex)
	}
	for _, token := range forex {
		if token == "crypto-only" {
			t.Error("Crypto-only subscriber must not receive forex alerts")
		}
	}

	crypto := repo.TokensForCategory(domain.CategoryCryptoScalping)
	if len(crypto) != 3 {
		t.Errorf("Expected 3 crypto subscribers, got %d", len(crypto))
	}
}

func TestTokenRegisterUpdateUnregister(t *testing.T) {
	repo := NewTokenRepository()
	repo.RegisterToken("abc", "android", nil, 1)
	if repo.GetTokenCount() != 1 {
		t.Fatalf("Expected 1 token, got %d", repo.GetTokenCount())
	}

	// Re-registering replaces the preference set
	repo.RegisterToken("abc", "android", []domain.Category{domain.CategoryForex}, 2)
	if repo.GetTokenCount() != 1 {
		t.Errorf("Re-registration must not duplicate, got %d", repo.GetTokenCount())
	}
	if got := repo.TokensForCategory(domain.CategoryCryptoScalping); len(got) != 0 {
		t.Errorf("Updated preferences should exclude crypto, got %v", got)
	}

	repo.UnregisterToken("abc")
	if repo.GetTokenCount() != 0 {
		t.Errorf("Expected empty repo, got %d", repo.GetTokenCount())
	}
}
