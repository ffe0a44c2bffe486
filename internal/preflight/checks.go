package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"cgreplay/internal/catalog"
	"cgreplay/internal/config"
	"cgreplay/internal/pairs"
	"cgreplay/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog verifies the configured catalog loads and can form pairs. A
// fallback substitution or a recorded hash that no longer matches the list
// fails the check because either one reassigns sessions.
func CheckCatalog(cfg *config.Config) Result {
	const name = "Catalog"

	doc, err := catalog.Resolve(cfg.Catalog.Path, cfg.Catalog.Fallback)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if doc.Len() < 2 {
		return Result{Name: name, Detail: fmt.Sprintf("%s: %d files (%v)", doc.Source, doc.Len(), pairs.ErrInsufficientCatalog)}
	}
	if doc.Fallback {
		return Result{Name: name, Detail: fmt.Sprintf("using fallback list (%d files, hash %d); %s unavailable", doc.Len(), doc.Hash(), cfg.Catalog.Path)}
	}
	if doc.HashDrift() {
		return Result{Name: name, Detail: fmt.Sprintf("%s: recorded hash %s, computed %d", doc.Source, doc.RecordedHash, doc.Hash())}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%d files, %d pairs, hash %d)", doc.Source, doc.Len(), pairs.Total(doc.Len()), doc.Hash()),
	}
}

// CheckStore opens the database and counts imported users.
func CheckStore(ctx context.Context, cfg *config.Config) Result {
	const name = "Database"

	s, err := store.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer s.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	users, err := s.Users(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", s.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d imported users)", s.Path(), len(users))}
}
