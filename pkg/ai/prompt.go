package ai

import "fmt"

func storyInstruction(p StoryPrompt) string {
	return fmt.Sprintf(`당신은 따뜻한 동화 작가입니다. 아래 일기를 바탕으로 짧은 동화를 한국어로 써 주세요.

규칙:
- 주인공: %s
- 결말의 분위기: %s
- 5~8문장, "옛날 옛적에"로 시작
- 일기의 감정과 사건을 자연스럽게 녹여 주세요
- 제목이나 설명 없이 본문만 출력

일기:
%s

동화:`, p.Character, p.Mood, p.Diary)
}

func poemInstruction(p StoryPrompt) string {
	return fmt.Sprintf(`당신은 서정적인 시인입니다. 아래 일기를 바탕으로 짧은 시를 한국어로 써 주세요.

규칙:
- 화자: %s
- 분위기: %s
- 3~4연, 각 연 2~3행
- 제목이나 설명 없이 시만 출력

일기:
%s

시:`, p.Character, p.Mood, p.Diary)
}
