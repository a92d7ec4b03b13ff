package judge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"

	"github.com/crazyfrankie/judge-cmp/constant"
)

// Judge 按配置打开标准输出与用户输出并进行比较
type Judge struct {
	config *Config
	pool   *BufferPool
}

// NewJudge 创建评测实例
func NewJudge(config *Config) *Judge {
	return &Judge{
		config: config,
		pool:   NewBufferPool(config.Buffer.Size),
	}
}

// WithPool 使用共享的缓冲池，池的缓冲区大小优先于配置
func (j *Judge) WithPool(pool *BufferPool) *Judge {
	j.pool = pool
	return j
}

type outcome struct {
	verdict       Verdict
	skipped       int64
	stdBytes      int64
	userBytes     int64
	stdCompressed bool
	err           error
}

// session 记录 worker 已打开的流，超时后拒绝新的流并打断已有的读取
type session struct {
	mu      sync.Mutex
	aborted bool
	streams []*Stream
}

func (s *session) add(st *Stream) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.aborted {
		return false
	}
	s.streams = append(s.streams, st)
	return true
}

func (s *session) close(st *Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.Close()
}

func (s *session) abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = true
	var err error
	for _, st := range s.streams {
		err = multierr.Append(err, st.abort())
	}
	return err
}

// Check 执行一次比较。
// 打开与比较都在单独的 goroutine 中进行，超时或 ctx 取消时打断读取并返回 TimeoutErr；
// 缓冲区在该 goroutine 结束时归还。
func (j *Judge) Check(ctx context.Context) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("mode", j.config.Mode)

	if err := j.config.Validate(); err != nil {
		return nil, err
	}
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	sess := &session{}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		done <- j.run(logger, sess)
	}()

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		if err := sess.abort(); err != nil {
			logger.Error(err, "Failed to abort streams after timeout")
		}
		return nil, &constant.TimeoutErr{Msg: fmt.Sprintf("compare did not finish: %v", ctx.Err()), Err: ctx.Err()}
	}
	if o.err != nil {
		return nil, o.err
	}

	result := NewResult(j.config.Mode)
	result.Verdict = o.verdict
	result.SkippedBytes = o.skipped
	result.StdBytes = o.stdBytes
	result.UserBytes = o.userBytes
	result.StdCompressed = o.stdCompressed
	result.Elapsed = time.Since(start)
	if err := fillUsage(result); err != nil {
		logger.V(1).Info("Failed to read resource usage", "error", err)
	}

	logger.V(1).Info("Compared",
		"verdict", result.Verdict.String(),
		"stdBytes", result.StdBytes,
		"userBytes", result.UserBytes,
		"skippedBytes", result.SkippedBytes,
		"stdCompressed", result.StdCompressed,
		"elapsed", result.Elapsed)
	return result, nil
}

// run 打开两个流并比较，返回前关闭流并归还缓冲区
func (j *Judge) run(logger logr.Logger, sess *session) (o outcome) {
	stdBuf, userBuf := j.pool.Get(), j.pool.Get()
	defer func() {
		j.pool.Put(stdBuf)
		j.pool.Put(userBuf)
	}()

	std, err := j.openStd(stdBuf)
	if err != nil {
		o.err = err
		return o
	}
	if !sess.add(std) {
		o.err = multierr.Append(context.Canceled, std.Close())
		return o
	}
	defer func() { o.err = multierr.Append(o.err, sess.close(std)) }()

	user, err := j.openUser(userBuf)
	if err != nil {
		o.err = err
		return o
	}
	if !sess.add(user) {
		o.err = multierr.Append(context.Canceled, user.Close())
		return o
	}
	defer func() { o.err = multierr.Append(o.err, sess.close(user)) }()
	logger.V(1).Info("Opened streams", "std", std.label(), "user", user.label())

	o.verdict, o.skipped, o.err = compare(j.config.Mode, std.Source, user.Source, j.config.Epsilon)
	if o.err == nil && j.config.ReadAll {
		o.err = Drain(user.Source)
	}
	o.stdBytes = std.Consumed()
	o.userBytes = user.Consumed()
	o.stdCompressed = std.Compressed()
	return o
}

// openStd 标准输出可以是 zstd 压缩的
func (j *Judge) openStd(buf []byte) (*Stream, error) {
	if j.config.Files.Std != "" {
		return OpenPath(j.config.Files.Std, buf, true)
	}
	return OpenFD(j.config.Files.StdFD, "std fd", buf, true)
}

// openUser 用户输出总是按原始字节比较
func (j *Judge) openUser(buf []byte) (*Stream, error) {
	if j.config.Files.User != "" {
		return OpenPath(j.config.Files.User, buf, false)
	}
	return OpenFD(j.config.Files.UserFD, "user fd", buf, false)
}
