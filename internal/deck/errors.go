package deck

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrUnknownLayout    = errors.New("unknown image layout")
	ErrNoTableData      = errors.New("table slide has no data")
	ErrInvalidRecord    = errors.New("invalid slide record")
)
