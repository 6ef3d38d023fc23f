package service

import "yatube/internal/model"

// fetchPage counts first and skips the list query when the requested page
// lies past the end, so out-of-range pages come back empty instead of failing.
func fetchPage[T any](number int, count func() (int, error), list func(limit, offset int) ([]T, error)) (model.Page[T], error) {
	req := model.NewPageRequest(number, model.PageSize)

	total, err := count()
	if err != nil {
		return model.Page[T]{}, err
	}

	var items []T
	if req.Offset() < total {
		items, err = list(req.Limit(), req.Offset())
		if err != nil {
			return model.Page[T]{}, err
		}
	}

	return model.NewPage(items, req, total), nil
}
