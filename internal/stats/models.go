package stats

import "time"

// ScanStat 는 일자별 스캔 집계를 저장하는 DB 모델이다.
type ScanStat struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	StatDate    time.Time `gorm:"column:stat_date;type:date"`
	Scanned     int64     `gorm:"column:scanned"`
	Quarantined int64     `gorm:"column:quarantined"`
	Suspicious  int64     `gorm:"column:suspicious"`
	Safe        int64     `gorm:"column:safe"`
	ScanErrors  int64     `gorm:"column:scan_errors"`
	Version     int64     `gorm:"column:version"`
}

// TableName 은 GORM에서 사용할 테이블명을 반환한다.
func (ScanStat) TableName() string {
	return "scan_stats"
}

// DailyStat 는 API/집계용 일자별 뷰 모델이다.
type DailyStat struct {
	StatDate    time.Time
	Scanned     int64
	Quarantined int64
	Suspicious  int64
	Safe        int64
	ScanErrors  int64
}

// QuarantineRate 는 전체 스캔 대비 격리 비율을 반환한다.
func (d DailyStat) QuarantineRate() float64 {
	if d.Scanned == 0 {
		return 0
	}
	return float64(d.Quarantined) / float64(d.Scanned)
}
