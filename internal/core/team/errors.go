package team

import "errors"

var (
	// ErrManagerNotFound はマネージャーを解決できない場合に返却されます。空のスコープとは区別されます。
	ErrManagerNotFound = errors.New("team: manager not found")
	// ErrMemberNotFound は参照可能と判定された対象ユーザーが存在しない場合に返却されます。
	ErrMemberNotFound = errors.New("team: member not found")
	// ErrForbidden は対象ユーザーがスコープ外の場合に返却されます。
	ErrForbidden = errors.New("team: forbidden")
	// ErrUpstreamUnavailable はストアや階層の参照に失敗した場合に返却されます。
	ErrUpstreamUnavailable = errors.New("team: upstream unavailable")

	ErrInvalidManagerID = errors.New("team: invalid manager id")
	ErrInvalidUserID    = errors.New("team: invalid user id")
	ErrInvalidMonth     = errors.New("team: invalid month")
	ErrInvalidStatus    = errors.New("team: invalid status")
	ErrInvalidDateRange = errors.New("team: invalid date range")
)
