// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

// DefaultRedisKey is the list used when the URL has no key parameter.
const DefaultRedisKey = "ufhash:digests"

// RedisStore keeps one line per digest in a Redis list.
type RedisStore struct {
	rdb  redis.UniversalClient
	key  string
	opts []ufh.Option
}

// redisOptions builds client options from a redis:// URL. Several
// comma-separated hosts select cluster mode; a first host without a port
// is taken as the sentinel master name.
func redisOptions(u *url.URL, password string) (*redis.UniversalOptions, string, error) {
	query := u.Query()
	key := query.Get("key")
	if key == "" {
		key = DefaultRedisKey
	}

	hosts := strings.Split(u.Host, ",")
	if len(hosts) == 0 || hosts[0] == "" {
		return nil, "", fmt.Errorf("redis url %s has no host", internal.RemovePassword(u.String()))
	}

	opt := &redis.UniversalOptions{
		Addrs:        hosts,
		PoolSize:     16,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if db := strings.Trim(u.Path, "/"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("invalid redis db %q", db)
		}
		opt.DB = n
	}

	if u.User != nil {
		opt.Username = u.User.Username()
		opt.Password, _ = u.User.Password()
	}
	if opt.Password == "" {
		opt.Password = password
	}
	if opt.Password == "" {
		opt.Password = os.Getenv("REDIS_PASSWORD")
	}

	if len(hosts) > 1 && !strings.Contains(hosts[0], ":") {
		opt.MasterName = hosts[0]
		opt.Addrs = hosts[1:]
	}
	if u.Scheme == "rediss" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return opt, key, nil
}

// NewRedisStore connects to the server u points at.
func NewRedisStore(ctx context.Context, u *url.URL, opts Options) (*RedisStore, error) {
	opt, key, err := redisOptions(u, opts.RedisPassword)
	if err != nil {
		return nil, err
	}

	switch {
	case opt.MasterName != "":
		logger.Infof("Connecting to Redis in Sentinel mode. Master: %s, Sentinels: %v", opt.MasterName, opt.Addrs)
	case len(opt.Addrs) > 1:
		logger.Infof("Connecting to Redis in Cluster mode. Nodes: %v", opt.Addrs)
	default:
		logger.Debugf("Connecting to Redis at %s, db %d", opt.Addrs[0], opt.DB)
	}

	rdb := redis.NewUniversalClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", strings.Join(opt.Addrs, ","), err)
	}

	return NewRedisStoreWithClient(rdb, key, opts.DigestOptions...), nil
}

// NewRedisStoreWithClient uses an existing client. Close closes it.
func NewRedisStoreWithClient(rdb redis.UniversalClient, key string, opts ...ufh.Option) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, opts: opts}
}

func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Save(ctx context.Context, entries []ufh.NamedDigest, appending bool) error {
	seen := internal.NewStringSet()
	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		name, err := CheckName(e.Name)
		if err != nil {
			return err
		}
		if !seen.AddIfAbsent(name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		if e.Digest == nil {
			continue
		}
		values = append(values, name+NameSeparator+e.Digest.String())
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !appending {
			pipe.Del(ctx, s.key)
		}
		if len(values) > 0 {
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", s.key, err)
	}

	logger.Debugf("saved %d entries to redis list %s", len(values), s.key)
	return nil
}

// Load returns the entries of the list. A missing key holds no entries.
func (s *RedisStore) Load(ctx context.Context) ([]ufh.NamedDigest, error) {
	lines, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", s.key, err)
	}

	entries, err := DecodeLines(strings.NewReader(strings.Join(lines, "\n")), s.opts...)
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", s.key, err)
	}
	return entries, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
