package mail

import (
	"sort"
	"time"
)

func (s *Store) putMemory(email *Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *email
	s.emails[email.ID] = &copied
	s.expiresAt[email.ID] = time.Now().Add(s.ttl())
	s.evictLocked()
	return nil
}

func (s *Store) getMemory(id string) (*Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.emails[id]
	if !ok {
		return nil, ErrEmailNotFound
	}
	if expiry, tracked := s.expiresAt[id]; tracked && time.Now().After(expiry) {
		return nil, ErrEmailNotFound
	}

	copied := *email
	return &copied, nil
}

func (s *Store) listAllMemory() []*Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	emails := make([]*Email, 0, len(s.emails))
	for id, email := range s.emails {
		if expiry, tracked := s.expiresAt[id]; tracked && now.After(expiry) {
			continue
		}
		copied := *email
		emails = append(emails, &copied)
	}
	return emails
}

func (s *Store) countMemory() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	count := 0
	for id := range s.emails {
		if expiry, tracked := s.expiresAt[id]; tracked && now.After(expiry) {
			continue
		}
		count++
	}
	return count
}

// evictLocked 는 만료 레코드를 정리하고 최대 보관 수를 넘으면
// 오래된 레코드부터 제거한다. 호출자가 잠금을 잡는다.
func (s *Store) evictLocked() {
	now := time.Now()
	for id, expiry := range s.expiresAt {
		if now.After(expiry) {
			delete(s.emails, id)
			delete(s.expiresAt, id)
		}
	}

	maxRecords := s.cfg.MailStore.MaxRecords
	if maxRecords <= 0 || len(s.emails) <= maxRecords {
		return
	}

	ids := make([]string, 0, len(s.emails))
	for id := range s.emails {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.emails[ids[i]].ReceivedAt.Before(s.emails[ids[j]].ReceivedAt)
	})
	for _, id := range ids[:len(s.emails)-maxRecords] {
		delete(s.emails, id)
		delete(s.expiresAt, id)
	}
}
