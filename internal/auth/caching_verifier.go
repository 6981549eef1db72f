package auth

import (
	"time"

	"inventory-catalog/internal/cache"
)

const principalCleanupInterval = 5 * time.Minute

// CachingVerifier guarda los principals ya verificados para no re-validar
// el mismo token en cada request. Nunca cachea más allá de la expiración del token.
type CachingVerifier struct {
	next  Verifier
	cache *cache.Cache[*Principal]
	ttl   time.Duration
	now   func() time.Time
}

func NewCachingVerifier(next Verifier, ttl time.Duration) *CachingVerifier {
	return &CachingVerifier{
		next:  next,
		cache: cache.New[*Principal](ttl, principalCleanupInterval),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (v *CachingVerifier) Verify(token string) (*Principal, error) {
	if p, ok := v.cache.Get(token); ok {
		return p, nil
	}

	p, err := v.next.Verify(token)
	if err != nil {
		return nil, err
	}

	ttl := v.ttl
	if !p.ExpiresAt.IsZero() {
		if remaining := p.ExpiresAt.Sub(v.now()); remaining < ttl {
			ttl = remaining
		}
	}
	v.cache.Set(token, p, ttl)

	return p, nil
}

// Close detiene la limpieza del caché
func (v *CachingVerifier) Close() {
	v.cache.Close()
}
