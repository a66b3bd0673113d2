// Package objectstore stores uploaded resume files by key.
// Keys are laid out as <account>/<tailoring>/<file name> so everything an
// account owns can be removed with one prefix delete.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/resumekit/resumekit-backend/pkg/config"
	"github.com/resumekit/resumekit-backend/pkg/logger"
)

// ErrNotFound is returned by Get when no object exists under the key
var ErrNotFound = errors.New("object not found")

// Object is a stored file
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store is implemented by the S3 and in-memory backends
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg *config.StorageConfig, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case "s3":
		store, err := NewS3(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory", "":
		log.Warn().Msg("using in-memory object store; uploads are lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Key builds the object key for a tailoring's uploaded file
func Key(accountID, tailoringID, fileName string) string {
	return accountID + "/" + tailoringID + "/" + SanitizeFileName(fileName)
}

// AccountPrefix is the key prefix covering every object of an account
func AccountPrefix(accountID string) string {
	return accountID + "/"
}

// SanitizeFileName strips directories and replaces characters that are awkward in object keys.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = ""
	}

	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)

	name = strings.Trim(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}
