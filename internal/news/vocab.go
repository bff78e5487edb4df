package news

import "strings"

// Domain terminology scanned first by the keyword matcher.
var termPatterns = []string{
	"AI", "artificial intelligence", "machine learning", "deep learning",
	"neural network", "neural networks", "ChatGPT", "OpenAI", "GPT",
	"LLM", "large language model", "language model", "NLP",
	"computer vision", "image recognition", "robotics",
	"automation", "autonomous", "algorithm", "data science",
	"generative AI", "generative", "transformer", "attention",
	"anthropic", "claude", "gemini", "bard", "copilot",
	"tensorflow", "pytorch", "hugging face", "midjourney",
	"stable diffusion", "diffusion model", "reinforcement learning",
	"supervised learning", "unsupervised learning", "self-supervised",
}

// Technology companies, reported in canonical casing.
var organizations = []string{
	"Google", "Microsoft", "Apple", "Amazon", "Meta", "Tesla",
	"NVIDIA", "IBM", "Intel", "AMD", "OpenAI", "Anthropic",
	"Stability AI", "Midjourney", "Cohere", "AI21 Labs",
}

// Research institutions, reported in canonical casing.
var institutions = []string{
	"MIT", "Stanford", "Berkeley", "Carnegie Mellon", "Oxford",
	"Cambridge", "DeepMind", "FAIR", "Google AI", "Microsoft Research",
}

var organizationSet = func() map[string]bool {
	m := make(map[string]bool, len(organizations))
	for _, o := range organizations {
		m[o] = true
	}
	return m
}()

// rule maps a signal group to the value it selects.
type rule struct {
	terms []string
	value string
}

// Derived tags appended after the vocabulary passes.
var signalRules = []rule{
	{[]string{"research", "study", "paper"}, "research"},
	{[]string{"funding", "investment", "valuation"}, "funding"},
	{[]string{"partnership", "collaboration"}, "partnership"},
	{[]string{"product", "launch", "release"}, "product"},
}

const genericSubject = "相关企业"

// subjectMaxRunes bounds the title token used when no organization matches.
const subjectMaxRunes = 20

var subjectRules = []rule{
	{[]string{"chatgpt", "openai"}, "OpenAI"},
	{[]string{"anthropic", "claude"}, "Anthropic"},
	{[]string{"google", "gemini"}, "谷歌"},
	{[]string{"microsoft", "copilot"}, "微软"},
}

const (
	categoryResearch    = "研究进展"
	categoryInvestment  = "投资动态"
	categoryProduct     = "产品发布"
	categoryPartnership = "商业合作"
	categoryPolicy      = "政策监管"
	categoryGeneral     = "行业动态"
)

var categoryRules = []rule{
	{[]string{"research", "study", "paper"}, categoryResearch},
	{[]string{"funding", "investment", "valuation"}, categoryInvestment},
	{[]string{"launch", "release", "update", "product"}, categoryProduct},
	{[]string{"partnership", "collaboration", "acquisition"}, categoryPartnership},
	{[]string{"regulation", "policy", "ethics"}, categoryPolicy},
}

const defaultAction = "推出"

var actionRules = []rule{
	{[]string{"launch", "release"}, "发布"},
	{[]string{"announce", "unveil"}, "宣布"},
	{[]string{"develop", "create", "build"}, "开发"},
	{[]string{"partner", "collaborate"}, "合作"},
	{[]string{"acquire"}, "收购"},
	{[]string{"fund", "invest"}, "融资"},
	{[]string{"research", "study"}, "研究"},
}

const defaultTopic = "AI技术"

var topicRules = []rule{
	{[]string{"chatgpt", "llm", "language model"}, "大语言模型"},
	{[]string{"image", "visual", "vision"}, "视觉AI"},
	{[]string{"robot", "automation"}, "机器人技术"},
	{[]string{"algorithm", "model"}, "AI技术"},
}

// elaborationHeadroom is the free budget required before an elaboration is appended.
const elaborationHeadroom = 20

const defaultElaboration = "，关注"

// Matched against the summary assembled so far, not the article text.
var elaborationRules = []rule{
	{[]string{"产品"}, "，为用户提供"},
	{[]string{"合作"}, "，共同推进"},
	{[]string{"研究"}, "，推动技术"},
}

const defaultClosing = "行业发展"

var closingRules = []rule{
	{[]string{"first", "new", "breakthrough"}, "技术突破"},
	{[]string{"improve", "better", "enhance"}, "性能提升"},
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// firstMatch evaluates rules in order and returns the value of the first group
// with a term present in text.
func firstMatch(text string, rules []rule, fallback string) string {
	for _, r := range rules {
		if containsAny(text, r.terms) {
			return r.value
		}
	}
	return fallback
}
