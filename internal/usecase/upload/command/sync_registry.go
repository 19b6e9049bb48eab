package command

import (
	"sync"

	"github.com/google/uuid"
)

// syncRegistry は同一セッションに対する動画ID同期の多重実行を
// プロセス内で防ぎます。プロバイダー照会が終わるまで2回目以降の
// 同期要求を拒否します。
type syncRegistry struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func newSyncRegistry() *syncRegistry {
	return &syncRegistry{
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

// begin はセッションの同期開始を登録します。既に進行中の場合はfalseを返します
func (r *syncRegistry) begin(sessionID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inFlight[sessionID]; ok {
		return false
	}
	r.inFlight[sessionID] = struct{}{}
	return true
}

// end はセッションの同期終了を登録します
func (r *syncRegistry) end(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, sessionID)
}
