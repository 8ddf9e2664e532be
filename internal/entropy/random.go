// Package entropy provides the random sources used by map generation.
// A Source may fail; callers decide what a failed draw means.
// True randomness comes from random.org when an API key is configured,
// falling back to crypto/rand when the API is unavailable.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrInvalidBound is returned by Intn when n <= 0.
	ErrInvalidBound = errors.New("entropy: bound must be positive")
	// ErrExhausted is returned when a source has no randomness left to give.
	ErrExhausted = errors.New("entropy: source exhausted")
)

// Source draws uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

// Crypto draws from crypto/rand. Read failures are returned to the caller.
type Crypto struct {
	Reader io.Reader // nil means crypto/rand.Reader
}

// Intn returns a uniform integer in [0, n).
func (c Crypto) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	r := c.Reader
	if r == nil {
		r = rand.Reader
	}
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("crypto draw: %w", err)
	}
	return int(v.Int64()), nil
}

// Seeded is a deterministic source for reproducible maps. It never fails
// and is safe for concurrent use, though interleaved callers see an
// interleaved sequence.
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source from seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a uniform integer in [0, n).
func (s *Seeded) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n), nil
}

// Client provides true random numbers from random.org with a local pool.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
	fallback Source

	mu        sync.Mutex
	pool      []float64
	refilling bool
	retryAt   time.Time // no refill attempts before this after a failure
}

const refillBackoff = time.Minute

const defaultEndpoint = "https://api.random.org/json-rpc/4/invoke"

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		fallback: Crypto{},
	}
}

// WithEndpoint points the client at another JSON-RPC endpoint.
func (c *Client) WithEndpoint(url string) *Client {
	if c != nil {
		c.endpoint = url
	}
	return c
}

// WithFallback replaces the source used when the pool cannot be refilled.
func (c *Client) WithFallback(src Source) *Client {
	if c != nil {
		c.fallback = src
	}
	return c
}

// Intn returns a uniform integer in [0, n). Uses the pool, refilling
// from random.org when low, and the fallback source on API failure.
// A nil client draws from crypto/rand. The HTTP refill runs without
// holding the lock; other callers keep drawing from the pool or the
// fallback meanwhile.
func (c *Client) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	if c == nil {
		return Crypto{}.Intn(n)
	}

	c.mu.Lock()
	if len(c.pool) < 10 && !c.refilling && time.Now().After(c.retryAt) {
		c.refilling = true
		c.mu.Unlock()
		fresh, ok := c.fetch()
		c.mu.Lock()
		c.refilling = false
		c.pool = append(c.pool, fresh...)
		if !ok {
			c.retryAt = time.Now().Add(refillBackoff)
		}
	}
	if len(c.pool) == 0 {
		c.mu.Unlock()
		if c.fallback == nil {
			return 0, ErrExhausted
		}
		return c.fallback.Intn(n)
	}
	val := c.pool[0]
	c.pool = c.pool[1:]
	c.mu.Unlock()

	v := int(val * float64(n))
	if v >= n {
		v = n - 1
	}
	return v, nil
}

// Pooled returns the number of buffered values.
func (c *Client) Pooled() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pool)
}

// fetch requests one batch of fractions. It touches no client state.
func (c *Client) fetch() ([]float64, bool) {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        c.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return nil, false
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return nil, false
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return nil, false
	}

	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return nil, false
	}

	fresh := make([]float64, 0, len(result.Result.Random.Data))
	for _, v := range result.Result.Random.Data {
		if v >= 0 && v < 1 {
			fresh = append(fresh, v)
		}
	}
	slog.Debug("random.org pool refilled", "count", len(fresh))
	return fresh, len(fresh) > 0
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// FromConfig picks the source for a server: random.org when a key is
// set, crypto/rand otherwise.
func FromConfig(apiKey string) Source {
	if c := NewClient(apiKey); c != nil {
		return c
	}
	return Crypto{}
}

// seedChunkBits is the width of each draw that SeedFrom combines.
const seedChunkBits = 21

// SeedFrom builds a non-negative 63-bit seed from three draws of src.
// Servers use it to spend a few values of an expensive source per map
// and generate the map itself from NewSeeded.
func SeedFrom(src Source) (int64, error) {
	var seed int64
	for range 3 {
		v, err := src.Intn(1 << seedChunkBits)
		if err != nil {
			return 0, fmt.Errorf("draw seed: %w", err)
		}
		seed = seed<<seedChunkBits | int64(v)
	}
	return seed, nil
}

// RandomSeed returns a crypto-random seed for NewSeeded, or the current
// time if crypto/rand is unavailable.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}
