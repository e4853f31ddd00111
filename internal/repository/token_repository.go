package repository

import (
	"sync"

	"biasbuster-backend/internal/domain"
)

// DeviceToken represents a registered push subscriber.
type DeviceToken struct {
	Token      string
	Platform   string // "android" or "ios"
	Categories []domain.Category
	CreatedAt  int64
}

// TokenRepository manages device tokens for push notifications. A subscriber
// without category preferences receives everything; the literal "ALL"
// category is a wildcard.
type TokenRepository struct {
	tokens map[string]*DeviceToken // token -> DeviceToken
	mu     sync.RWMutex
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		tokens: make(map[string]*DeviceToken),
	}
}

// RegisterToken adds or updates a device token with its category filter.
func (r *TokenRepository) RegisterToken(token, platform string, categories []domain.Category, timestamp int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = &DeviceToken{
		Token:      token,
		Platform:   platform,
		Categories: categories,
		CreatedAt:  timestamp,
	}
}

// UnregisterToken removes a device token.
func (r *TokenRepository) UnregisterToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
}

// TokensForCategory returns every token subscribed to the given category.
func (r *TokenRepository) TokensForCategory(category domain.Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.tokens))
	for token, dev := range r.tokens {
		if subscribed(dev, category) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func subscribed(dev *DeviceToken, category domain.Category) bool {
	if len(dev.Categories) == 0 {
		return true
	}
	for _, c := range dev.Categories {
		if c == "ALL" || c == category {
			return true
		}
	}
	return false
}

// GetAllTokens returns all registered tokens.
func (r *TokenRepository) GetAllTokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		tokens = append(tokens, token)
	}
	return tokens
}

// GetTokenCount returns the number of registered tokens.
func (r *TokenRepository) GetTokenCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tokens)
}
