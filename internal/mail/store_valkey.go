package mail

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

func (s *Store) putValkey(ctx context.Context, email *Email) error {
	value, err := encodeEmail(email)
	if err != nil {
		return err
	}

	cmd := s.client.B().Set().Key(s.emailKey(email.ID)).Value(value).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("put email: %w", err)
	}
	return nil
}

func (s *Store) getValkey(ctx context.Context, id string) (*Email, error) {
	cmd := s.client.B().Get().Key(s.emailKey(id)).Build()
	result, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("get email: %w", err)
	}
	return decodeEmail(result)
}

// listAllValkey 는 SCAN 으로 키를 모은 뒤 레코드를 읽는다. 깨진
// 레코드는 건너뛴다.
func (s *Store) listAllValkey(ctx context.Context) ([]*Email, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]valkey.Completed, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, s.client.B().Get().Key(key).Build())
	}

	emails := make([]*Email, 0, len(keys))
	for _, result := range s.client.DoMulti(ctx, cmds...) {
		value, err := result.ToString()
		if err != nil {
			continue
		}
		email, err := decodeEmail(value)
		if err != nil {
			continue
		}
		emails = append(emails, email)
	}
	return emails, nil
}

func (s *Store) countValkey(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *Store) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match("armourmail:email:*").Count(100).Build()
		result, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan emails: %w", err)
		}
		keys = append(keys, result.Elements...)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
