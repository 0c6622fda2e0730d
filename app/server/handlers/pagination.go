package handlers

import (
	"errors"
	"math"
	"strconv"
	"usuarios-backend/app/server/store"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

var errPageOutOfRange = errors.New("page out of range")

// parsePagination maps 1-based ?page= and ?limit= onto a store.Page. Without
// either parameter, or with page=0&limit=0, everything is listed.
func (a *App) parsePagination(pageStr, limitStr string) (store.Page, bool, error) {
	if pageStr == "" && limitStr == "" {
		return store.Page{}, true, nil
	}

	var page, limit uint64
	var err error
	if pageStr != "" {
		if page, err = strconv.ParseUint(pageStr, 10, 32); err != nil {
			return store.Page{}, false, err
		}
	}
	if limitStr != "" {
		if limit, err = strconv.ParseUint(limitStr, 10, 32); err != nil {
			return store.Page{}, false, err
		}
	}

	if pageStr != "" && limitStr != "" && page == 0 && limit == 0 {
		// Special case: show all
		return store.Page{}, true, nil
	}

	// Before: which page, how many per page
	// After: zero-based offset, same limit
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit || (page-1)*limit > math.MaxInt32 {
		return store.Page{}, false, errPageOutOfRange
	}

	return store.Page{Offset: int((page - 1) * limit), Limit: int(limit)}, false, nil
}

func (a *App) calcMaxPage(count int64, showAll bool, limit int) int64 {
	if showAll {
		return 1
	} else {
		pageMax := count / int64(limit)
		if (count % int64(limit)) != 0 {
			pageMax++
		}
		return pageMax
	}
}
