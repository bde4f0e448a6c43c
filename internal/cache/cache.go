// Package cache wraps a compile.Compiler with whole-program
// memoization of identical (source, registration-table) pairs, backed
// by SQLite through gorm.io/gorm + gorm.io/driver/sqlite — the
// teacher's own storage stack, repurposed here from GMX's model
// persistence to a compile-result cache. This is deliberately not
// incremental compilation: a cache hit is an exact match on the full
// source text and the full registration fingerprint, never a partial
// re-parse.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pyjs-lang/pyjsc/internal/compiler/compile"
)

// CacheEntry is the gorm-mapped row for one memoized compile result.
type CacheEntry struct {
	Hash      string `gorm:"primaryKey"`
	Payload   string // json-encoded compile.Result
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Compiler memoizes compile.Compiler.Compile by (source, registration
// fingerprint). Its Compile method has the same signature as
// compile.Compiler.Compile, so either can serve as a
// func(string) compile.Result.
type Compiler struct {
	inner *compile.Compiler
	db    *gorm.DB

	// Hits and Misses count cache outcomes for observability (§[EXPANSION]-8's
	// "observable via a counter" requirement). Never reset automatically.
	Hits   int
	Misses int
}

// Open opens (creating if necessary) a SQLite-backed cache at path,
// wrapping inner. path may be ":memory:" for a process-local cache.
func Open(path string, inner *compile.Compiler) (*Compiler, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, err
	}
	return &Compiler{inner: inner, db: db}, nil
}

// Compile answers from the cache on a hit; otherwise runs inner.Compile,
// stores the result, and returns it. A cached hit's Tokens/AST fields
// decode through encoding/json's generic interface{} handling rather
// than their concrete ast/token types — callers after a cache hit
// should treat Output/Raw/Final/Errors as the trustworthy fields, the
// same ones a host actually needs; Tokens/AST are tooling conveniences
// that a cache-miss path still populates faithfully.
func (c *Compiler) Compile(source string) compile.Result {
	key := c.key(source)

	var row CacheEntry
	if err := c.db.First(&row, "hash = ?", key).Error; err == nil {
		var result compile.Result
		if jsonErr := json.Unmarshal([]byte(row.Payload), &result); jsonErr == nil {
			c.Hits++
			return result
		}
	}

	c.Misses++
	result := c.inner.Compile(source)

	if payload, err := json.Marshal(result); err == nil {
		entry := CacheEntry{Hash: key, Payload: string(payload)}
		c.db.Save(&entry)
	}

	return result
}

func (c *Compiler) key(source string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(c.inner.Registry().Fingerprint()))
	return hex.EncodeToString(h.Sum(nil))
}
