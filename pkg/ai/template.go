package ai

import (
	"context"
	"fmt"
)

// TemplateService fills fixed Korean templates. It needs no network and never fails.
type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

func (TemplateService) WriteStory(_ context.Context, p StoryPrompt) (string, error) {
	return fmt.Sprintf(`옛날 옛적에 %[1]s가 살고 있었어요.
그 %[1]s는 오늘 이렇게 느꼈어요:

"%[2]s"

그리고 그 이야기는 결국 %[3]s한 결말로 끝이 났어요.`, p.Character, p.Diary, p.Mood), nil
}

func (TemplateService) WritePoem(_ context.Context, p StoryPrompt) (string, error) {
	return fmt.Sprintf(`%[1]s의 하루는

"%[2]s"

그리고 그 마음은

%[3]s의 노래로 남았어요.`, p.Character, p.Diary, p.Mood), nil
}
