package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/armourmail-go/internal/config"
)

var (
	// ErrEmailNotFound 는 메일 미존재 오류다.
	ErrEmailNotFound = errors.New("email not found")
	// ErrInvalidStatus 는 허용되지 않는 상태 전이 오류다.
	ErrInvalidStatus = errors.New("invalid status transition")
)

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

// 이 크기 이상의 레코드만 압축한다.
const compressMinBytes = 512

// ListFilter 는 목록 조회 필터다.
type ListFilter struct {
	Status Status
	Sender string
}

// Store 는 메일 레코드 저장소다. Valkey 백엔드가 비활성이면
// 메모리 백엔드로 동작한다.
type Store struct {
	client  valkey.Client
	cfg     *config.Config
	backend storeBackend

	mu        sync.RWMutex
	emails    map[string]*Email
	expiresAt map[string]time.Time
}

// NewStore 는 메일 저장소를 생성한다.
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if !cfg.MailStore.Enabled {
		if cfg.MailStore.Required {
			return nil, errors.New("mail store required but disabled")
		}
		return newMemoryStore(cfg), nil
	}

	conn, err := parseStoreURL(cfg.MailStore.URL)
	if err != nil {
		return nil, fmt.Errorf("parse mail store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse mail store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: cfg.MailStore.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	return &Store{
		client:  client,
		cfg:     cfg,
		backend: storeBackendValkey,
	}, nil
}

func newMemoryStore(cfg *config.Config) *Store {
	return &Store{
		cfg:       cfg,
		backend:   storeBackendMemory,
		emails:    make(map[string]*Email),
		expiresAt: make(map[string]time.Time),
	}
}

// Close 는 Valkey 연결을 종료한다.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

// Backend 는 현재 백엔드 이름을 반환한다.
func (s *Store) Backend() string {
	if s.backend == storeBackendValkey {
		return "valkey"
	}
	return "memory"
}

func (s *Store) emailKey(id string) string {
	return "armourmail:email:" + id
}

func (s *Store) ttl() time.Duration {
	return time.Duration(s.cfg.MailStore.TTLHours) * time.Hour
}

// Put 는 메일 레코드를 저장한다.
func (s *Store) Put(ctx context.Context, email *Email) error {
	if email == nil || email.ID == "" {
		return errors.New("email id is empty")
	}
	if s.backend == storeBackendMemory {
		return s.putMemory(email)
	}
	return s.putValkey(ctx, email)
}

// Get 는 메일 레코드를 조회한다.
func (s *Store) Get(ctx context.Context, id string) (*Email, error) {
	if s.backend == storeBackendMemory {
		return s.getMemory(id)
	}
	return s.getValkey(ctx, id)
}

// UpdateStatus 는 기대 상태를 확인한 뒤 상태를 전이한다. 기대 상태가
// 아니면 ErrInvalidStatus 를 반환한다.
func (s *Store) UpdateStatus(ctx context.Context, id string, expected []Status, to Status, note string) (*Email, error) {
	email, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(expected) > 0 {
		allowed := false
		for _, status := range expected {
			if email.Status == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, email.Status, to)
		}
	}

	now := time.Now()
	email.Status = to
	email.ProcessedAt = &now
	if note != "" {
		email.RejectNote = note
	}

	if err := s.Put(ctx, email); err != nil {
		return nil, err
	}
	return email, nil
}

// List 는 필터에 맞는 레코드를 최신순으로 페이지네이션해 반환한다.
func (s *Store) List(ctx context.Context, filter ListFilter, page, pageSize int) (Page, error) {
	emails, err := s.listAll(ctx)
	if err != nil {
		return Page{}, err
	}

	var summaries []Summary
	for _, email := range emails {
		if filter.Status != "" && email.Status != filter.Status {
			continue
		}
		if filter.Sender != "" && !strings.Contains(strings.ToLower(email.Sender), strings.ToLower(filter.Sender)) {
			continue
		}
		summaries = append(summaries, Summarize(email))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ReceivedAt.After(summaries[j].ReceivedAt)
	})
	return NewPage(summaries, page, pageSize), nil
}

// ListQuarantined 는 격리 레코드를 수신 순서대로(FIFO) 반환한다.
func (s *Store) ListQuarantined(ctx context.Context, page, pageSize int) (Page, error) {
	emails, err := s.listAll(ctx)
	if err != nil {
		return Page{}, err
	}

	var summaries []Summary
	for _, email := range emails {
		if email.Status != StatusQuarantined {
			continue
		}
		summaries = append(summaries, Summarize(email))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ReceivedAt.Before(summaries[j].ReceivedAt)
	})
	return NewPage(summaries, page, pageSize), nil
}

// Count 는 저장된 레코드 수를 반환한다.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.backend == storeBackendMemory {
		return s.countMemory(), nil
	}
	return s.countValkey(ctx)
}

// Ping 는 백엔드 연결을 확인한다.
func (s *Store) Ping(ctx context.Context) error {
	if s.backend == storeBackendMemory {
		return nil
	}

	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}

func (s *Store) listAll(ctx context.Context) ([]*Email, error) {
	if s.backend == storeBackendMemory {
		return s.listAllMemory(), nil
	}
	return s.listAllValkey(ctx)
}

// encodeEmail 는 레코드를 JSON 으로 직렬화하고 큰 본문은 압축한다.
func encodeEmail(email *Email) (string, error) {
	data, err := json.Marshal(email)
	if err != nil {
		return "", fmt.Errorf("marshal email: %w", err)
	}

	if len(data) >= compressMinBytes {
		compressed, err := compressZstd(data)
		if err == nil && len(compressed) < len(data) {
			return "zst:" + string(compressed), nil
		}
	}
	return "json:" + string(data), nil
}

func decodeEmail(value string) (*Email, error) {
	var data []byte
	switch {
	case strings.HasPrefix(value, "zst:"):
		decoded, err := decompressZstd([]byte(strings.TrimPrefix(value, "zst:")))
		if err != nil {
			return nil, err
		}
		data = decoded
	case strings.HasPrefix(value, "json:"):
		data = []byte(strings.TrimPrefix(value, "json:"))
	default:
		data = []byte(value)
	}

	var email Email
	if err := json.Unmarshal(data, &email); err != nil {
		return nil, fmt.Errorf("unmarshal email: %w", err)
	}
	return &email, nil
}
