package usecase

import "github.com/user/roadwatch/internal/domain"

// PageGap marks a collapsed run of page numbers in a display window.
const PageGap = -1

// Paginate slices a filtered set into the requested page. The page number is
// clamped into [1, totalPages], never wrapped. An empty set yields an empty
// page with zero total pages.
func Paginate(records []domain.ImageRecord, pageSize, currentPage int) ([]domain.ImageRecord, domain.PageState) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(records) + pageSize - 1) / pageSize

	page := currentPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > len(records) {
		start = len(records)
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	return records[start:end], domain.PageState{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// PageWindow builds the deterministic page-number display list: always page 1
// and the last page, every page within distance 1 of the current page, and a
// single PageGap marker for each collapsed run in between.
func PageWindow(totalPages, currentPage int) []int {
	if totalPages <= 0 {
		return nil
	}

	var window []int
	last := 0
	for p := 1; p <= totalPages; p++ {
		keep := p == 1 || p == totalPages ||
			(p >= currentPage-1 && p <= currentPage+1)
		if !keep {
			continue
		}
		if last != 0 && p-last > 1 {
			window = append(window, PageGap)
		}
		window = append(window, p)
		last = p
	}
	return window
}
