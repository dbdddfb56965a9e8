package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wonny/superinvestor/pkg/config"
)

// Load reads a YAML profile.
// KnownFields(true): 오타/미사용 필드는 즉시 실패
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates profile YAML
func Parse(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Hash fingerprints a profile (canonical JSON of the struct)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(p *Profile) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// Apply copies the non-empty profile fields onto cfg
func (p *Profile) Apply(cfg *config.Config) {
	if p.Source.URL != "" {
		cfg.Source.URL = p.Source.URL
	}
	if p.Source.TableSelector != "" {
		cfg.Source.TableSelector = p.Source.TableSelector
	}
	if p.Source.Strategy != "" {
		cfg.Source.Strategy = p.Source.Strategy
	}
	if p.Source.UserAgent != "" {
		cfg.Source.UserAgent = p.Source.UserAgent
	}
	if p.Quote.Provider != "" {
		cfg.Quote.Provider = p.Quote.Provider
	}
	if p.Quote.RateLimit > 0 {
		cfg.Quote.RateLimit = p.Quote.RateLimit
	}
	if p.Screener.Concurrency > 0 {
		cfg.Screener.Concurrency = p.Screener.Concurrency
	}
	if p.Cache.TTL != "" {
		// Validate already parsed it
		ttl, _ := time.ParseDuration(p.Cache.TTL)
		cfg.Cache.TTL = ttl
	}
}
