package counter

import "time"

// TTL returns the remaining lifetime of key.
func (s *MemoryStore) TTL(key string) (time.Duration, bool) {
	_, exp, found := s.cache.GetWithExpiration(key)
	if !found || exp.IsZero() {
		return 0, found
	}
	return time.Until(exp), true
}
