package conversation

import (
	"hash/fnv"
	"sync"

	"github.com/roomboardhq/roomboard/internal/domain"
)

const draftShards = 16

// draftStore maps owner id to the single in-progress draft. Drafts never
// interact across users, so the store shards by owner and each shard takes
// its own lock; ordering within one user is the transport's job.
type draftStore struct {
	shards [draftShards]draftShard
}

type draftShard struct {
	mu     sync.Mutex
	drafts map[string]domain.Draft
}

func newDraftStore() *draftStore {
	s := &draftStore{}
	for i := range s.shards {
		s.shards[i].drafts = make(map[string]domain.Draft)
	}
	return s
}

func (s *draftStore) shardFor(owner string) *draftShard {
	h := fnv.New32a()
	h.Write([]byte(owner))
	return &s.shards[h.Sum32()%draftShards]
}

func (s *draftStore) Load(owner string) (domain.Draft, bool) {
	shard := s.shardFor(owner)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	d, ok := shard.drafts[owner]
	return d, ok
}

func (s *draftStore) Save(d domain.Draft) {
	shard := s.shardFor(d.Owner)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.drafts[d.Owner] = d
}

func (s *draftStore) Delete(owner string) {
	shard := s.shardFor(owner)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.drafts, owner)
}
