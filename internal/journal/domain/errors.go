package domain

import "errors"

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrEmptyDiary       = errors.New("일기를 입력해주세요!")
	ErrDiaryNotSaved    = errors.New("먼저 일기를 저장해주세요!")
	ErrFutureDate       = errors.New("미래 날짜의 일기는 작성할 수 없어요!")
	ErrAlreadyRequested = errors.New("generation already requested for this view")
	ErrGenerationFailed = errors.New("generation failed")
	ErrInvalidSnapshot  = errors.New("invalid story-storage snapshot")
)
