package stats

import (
	"context"
	"time"
)

// Store: 통계 저장소 인터페이스입니다.
// 테스트에서 mock 구현을 주입할 수 있도록 합니다.
type Store interface {
	// RecordScans 일별 스캔 집계 기록
	RecordScans(
		ctx context.Context,
		scanned int64,
		quarantined int64,
		suspicious int64,
		safe int64,
		scanErrors int64,
		statDate time.Time,
	) error

	// GetDailyStat 일별 집계 조회
	GetDailyStat(ctx context.Context, statDate time.Time) (*DailyStat, error)

	// GetRecentStats 최근 N일 집계 조회
	GetRecentStats(ctx context.Context, days int) ([]DailyStat, error)

	// Close 리소스 정리
	Close()
}

// Repository가 Store 인터페이스를 구현하는지 컴파일 타임 확인
var _ Store = (*Repository)(nil)
