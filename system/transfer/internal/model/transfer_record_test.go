package model

import (
	"testing"
	"time"
)

func TestTransferRecord_IsExpired(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	record := &TransferRecord{}
	record.CreatedAt = created

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "刚上传未过期",
			now:  created.Add(time.Minute),
			want: false,
		},
		{
			name: "过期前一秒未过期",
			now:  created.Add(ttl - time.Second),
			want: false,
		},
		{
			name: "正好到期视为过期",
			now:  created.Add(ttl),
			want: true,
		},
		{
			name: "过期后已过期",
			now:  created.Add(ttl + time.Hour),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := record.IsExpired(tt.now, ttl); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransferRecord_ExpiresAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	record := &TransferRecord{}
	record.CreatedAt = created

	want := created.Add(24 * time.Hour)
	if got := record.ExpiresAt(24 * time.Hour); !got.Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", got, want)
	}
}

func TestTransferRecord_RemainingLifetime(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	record := &TransferRecord{}
	record.CreatedAt = created

	if got := record.RemainingLifetime(created.Add(23*time.Hour), ttl); got != time.Hour {
		t.Errorf("RemainingLifetime() = %v, want %v", got, time.Hour)
	}

	// 已过期时不返回负数
	if got := record.RemainingLifetime(created.Add(25*time.Hour), ttl); got != 0 {
		t.Errorf("RemainingLifetime() = %v, want 0", got)
	}
}
