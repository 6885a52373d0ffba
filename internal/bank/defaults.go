package bank

import (
	"github.com/jonathan/interview-prep/internal/types"
)

// FallbackMainCategory groups questions when the taxonomy has no main categories.
const FallbackMainCategory = "기타"

// DefaultTaxonomy returns the built-in taxonomy used when a company has no override.
func DefaultTaxonomy() types.Taxonomy {
	t := types.NewTaxonomy()
	t.Set("소개", []string{"자기소개", "문화-성향"})
	t.Set("이력 기반", []string{"프로젝트-경험", "협업"})
	t.Set("기술", []string{
		"JavaScript", "React", "TypeScript", "브라우저-렌더링",
		"메모리-성능", "네트워크", "빌드-배포", "아키텍처-기술판단",
	})
	t.Set("마무리", []string{"역질문"})
	return t
}

// DefaultQuestionBank returns the starter question bank given to a fresh install.
// Questions carry no ids; callers assign them with EnsureIDs.
func DefaultQuestionBank() types.QuestionBank {
	b := types.QuestionBank{Categories: []types.Category{
		{Order: 1, Category: "자기소개", Questions: []types.Question{
			{
				Question: "1분 자기소개를 해주세요.",
				Answer:   "프론트엔드 개발자로서 사용자 경험을 개선하는 데 집중해 왔습니다. 최근 프로젝트에서는 렌더링 성능을 개선했습니다.",
				Keywords: "사용자 경험, 성능, 프로젝트",
			},
			{
				Question:   "그 프로젝트에서 가장 어려웠던 점은 무엇인가요?",
				Answer:     "기존 코드의 불필요한 리렌더링 원인을 찾는 것이 가장 어려웠고, 프로파일러로 병목을 측정해 해결했습니다.",
				Keywords:   "리렌더링, 프로파일러, 병목",
				IsFollowup: true,
			},
		}},
		{Order: 2, Category: "JavaScript", Questions: []types.Question{
			{
				Question: "클로저에 대해 설명해주세요.",
				Answer:   "클로저는 함수가 선언될 때의 렉시컬 환경을 기억하여 외부 함수가 종료된 후에도 그 변수에 접근할 수 있는 함수입니다.",
				Keywords: "렉시컬 환경, 스코프, 은닉",
			},
			{
				Question: "이벤트 루프의 동작 방식을 설명해주세요.",
				Answer:   "콜 스택이 비면 이벤트 루프가 마이크로태스크 큐를 먼저 비우고 그 다음 태스크 큐의 작업을 콜 스택으로 옮깁니다.",
				Keywords: "콜 스택, 마이크로태스크, 태스크 큐",
			},
		}},
		{Order: 3, Category: "React", Questions: []types.Question{
			{
				Question: "useEffect와 useLayoutEffect의 차이는 무엇인가요?",
				Answer:   "useEffect는 화면이 그려진 후 비동기로 실행되고 useLayoutEffect는 DOM 변경 후 페인트 전에 동기로 실행됩니다.",
				Keywords: "페인트, 동기, 비동기",
			},
		}},
		{Order: 4, Category: "역질문", Questions: []types.Question{
			{
				Question: "마지막으로 궁금한 점이 있나요?",
				Answer:   "팀의 코드 리뷰 문화와 온보딩 과정에 대해 여쭤보고 싶습니다.",
				Keywords: "코드 리뷰, 온보딩",
			},
		}},
	}}
	b.TotalQuestions = b.CountQuestions()
	return b
}

// LegacyKey returns the positional question key used by older exports:
// the category name followed by the first 20 characters of the question text.
// It is not unique and is not used to address questions.
func LegacyKey(category, question string) string {
	r := []rune(question)
	if len(r) > 20 {
		r = r[:20]
	}
	return category + "-" + string(r)
}
