package counter_test

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/vaultline/internal/adapters/counter"
	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/core/domain"
	portssvc "github.com/SscSPs/vaultline/internal/core/ports/services"
	"github.com/SscSPs/vaultline/internal/core/services"
	"github.com/SscSPs/vaultline/internal/platform/clock"
	pkgcache "github.com/SscSPs/vaultline/pkg/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisStore builds the store on a client configured the way the serve command builds it.
func newRedisStore(t *testing.T, addr string) *counter.RedisStore {
	t.Helper()
	client, err := pkgcache.NewRedisClient(context.Background(), "redis://"+addr)
	require.NoError(t, err)
	t.Cleanup(func() { pkgcache.CloseRedisClient(client) })
	return counter.NewRedisStore(client)
}

func TestRedisStore_FirstIncrementSetsTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr())
	ctx := context.Background()

	n, err := store.IncrementWithExpiry(ctx, "rl:k:2024-01-10", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 24*time.Hour, mr.TTL("rl:k:2024-01-10"))

	mr.FastForward(time.Hour)

	n, err = store.IncrementWithExpiry(ctx, "rl:k:2024-01-10", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 23*time.Hour, mr.TTL("rl:k:2024-01-10"), "later increments keep the original expiry")
}

func TestRedisStore_ExpiredKeyRestarts(t *testing.T) {
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr())
	ctx := context.Background()

	_, err := store.IncrementWithExpiry(ctx, "rl:k:2024-01-10", 24*time.Hour)
	require.NoError(t, err)
	mr.FastForward(24 * time.Hour)
	require.False(t, mr.Exists("rl:k:2024-01-10"))

	n, err := store.IncrementWithExpiry(ctx, "rl:k:2024-01-10", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 24*time.Hour, mr.TTL("rl:k:2024-01-10"))
}

func TestRedisStore_GetMissingIsZero(t *testing.T) {
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr())

	n, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRedisStore_ConcurrentIncrements(t *testing.T) {
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr())
	ctx := context.Background()
	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	seen := make(chan int64, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				n, err := store.IncrementWithExpiry(ctx, "hot", 24*time.Hour)
				if err == nil {
					seen <- n
				}
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]struct{})
	for n := range seen {
		unique[n] = struct{}{}
	}
	assert.Len(t, unique, workers*perWorker, "every increment observes a distinct value")

	final, err := store.Get(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), final)
	assert.Equal(t, 24*time.Hour, mr.TTL("hot"))
}

func TestRedisStore_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	store := newRedisStore(t, mr.Addr())

	require.NoError(t, store.Ping(context.Background()))
}

// stallingRedis speaks enough RESP for a client to connect and ping, then never
// answers a script. It counts every script invocation it receives.
type stallingRedis struct {
	ln      net.Listener
	scripts atomic.Int64
}

func newStallingRedis(t *testing.T) *stallingRedis {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &stallingRedis{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *stallingRedis) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *stallingRedis) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		switch strings.ToUpper(args[0]) {
		case "PING":
			_, err = io.WriteString(conn, "+PONG\r\n")
		case "EVAL", "EVALSHA":
			s.scripts.Add(1)
		default:
			_, err = io.WriteString(conn, "-ERR unknown command\r\n")
		}
		if err != nil {
			return
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	header = strings.TrimRight(header, "\r\n")
	if !strings.HasPrefix(header, "*") {
		return nil, fmt.Errorf("expected array, got %q", header)
	}
	count, err := strconv.Atoi(header[1:])
	if err != nil || count < 1 {
		return nil, fmt.Errorf("bad array header %q", header)
	}

	args := make([]string, 0, count)
	for i := 0; i < count; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, "$") {
			return nil, fmt.Errorf("expected bulk string, got %q", line)
		}
		size, err := strconv.Atoi(line[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

// stalledLimiter is a limiter whose counter store never answers.
func stalledLimiter(t *testing.T, srv *stallingRedis) portssvc.RateLimiterSvc {
	t.Helper()
	store := newRedisStore(t, srv.ln.Addr().String())
	return services.NewRateLimitService(store, clock.NewManual(time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)), services.RateLimitOptions{
		Plans:        domain.DefaultPlanTable(),
		CounterTTL:   24 * time.Hour,
		StoreTimeout: 200 * time.Millisecond,
	})
}

func TestRedisStore_SlowReplyIsSentOnce(t *testing.T) {
	srv := newStallingRedis(t)
	limiter := stalledLimiter(t, srv)

	_, err := limiter.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)
	require.Error(t, err)

	require.Eventually(t, func() bool { return srv.scripts.Load() >= 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), srv.scripts.Load(), "one decision sends the increment script exactly once")
}

func TestRedisStore_StoreTimeoutIsHonouredAndReportedAsTimeout(t *testing.T) {
	srv := newStallingRedis(t)
	limiter := stalledLimiter(t, srv)

	start := time.Now()
	_, err := limiter.CheckAndConsume(context.Background(), "key-1", domain.PlanSandbox)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second, "the store deadline bounds the call, not the client read timeout")
	assert.ErrorIs(t, err, apperrors.ErrStoreTimeout)
	assert.NotErrorIs(t, err, apperrors.ErrStoreUnavailable)
}
