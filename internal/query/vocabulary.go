package query

// paraphrase maps a causal trigger to alternative phrasings
type paraphrase struct {
	trigger      string
	alternatives []string
}

var paraphrases = []paraphrase{
	{"causes", []string{"leads to", "results in", "induces", "triggers", "promotes"}},
	{"prevents", []string{"reduces", "decreases", "inhibits", "blocks", "protects against"}},
	{"improves", []string{"enhances", "boosts", "increases", "strengthens", "optimizes"}},
	{"effective", []string{"beneficial", "helpful", "successful", "useful", "valuable"}},
	{"study", []string{"research", "investigation", "trial", "experiment", "analysis"}},
	{"shows", []string{"demonstrates", "indicates", "suggests", "reveals", "finds"}},
}

// synonyms is a controlled vocabulary keyed by lemma: MeSH headings for
// biomedical concepts plus general-language equivalents
var synonyms = map[string][]string{
	// MeSH
	"exercise":     {"physical activity", "aerobic exercise", "cardio", "fitness", "workout"},
	"cognitive":    {"mental", "brain", "neural", "psychological", "intellectual"},
	"memory":       {"recall", "retention", "learning", "cognition", "remembering"},
	"weight":       {"body weight", "obesity", "BMI", "mass", "fat"},
	"fasting":      {"intermittent fasting", "caloric restriction", "diet", "nutrition"},
	"inflammation": {"inflammatory", "immune response", "cytokines", "swelling"},
	"diabetes":     {"diabetic", "glucose", "insulin", "blood sugar", "metabolic"},
	"cancer":       {"tumor", "neoplasm", "oncology", "malignancy", "carcinoma"},
	"depression":   {"mood", "mental health", "anxiety", "psychological distress"},
	"aging":        {"elderly", "senescence", "longevity", "age-related"},

	// General vocabulary
	"cardiovascular": {"cardiac", "heart", "circulatory", "vascular"},
	"heart":          {"cardiac", "cardiovascular", "coronary"},
	"health":         {"wellness", "wellbeing", "healthiness"},
	"improve":        {"enhance", "better", "ameliorate", "amend"},
	"reduce":         {"decrease", "lower", "diminish", "lessen"},
	"increase":       {"raise", "elevate", "boost", "augment"},
	"risk":           {"hazard", "likelihood", "probability", "danger"},
	"sleep":          {"slumber", "rest", "circadian", "insomnia"},
	"brain":          {"cerebral", "neural", "encephalon", "mind"},
	"stress":         {"strain", "tension", "cortisol", "pressure"},
	"vaccine":        {"vaccination", "immunization", "inoculation"},
	"vitamin":        {"supplement", "micronutrient"},
	"coffee":         {"caffeine", "java"},
	"smoking":        {"tobacco", "cigarette", "nicotine"},
	"alcohol":        {"ethanol", "drinking", "alcoholic beverage"},
	"obesity":        {"overweight", "adiposity", "corpulence"},
	"blood":          {"plasma", "serum", "circulation"},
	"pressure":       {"tension", "hypertension"},
	"disease":        {"illness", "disorder", "condition", "malady"},
	"mortality":      {"death rate", "deaths", "fatality"},
	"treatment":      {"therapy", "intervention", "remedy"},
	"diet":           {"nutrition", "eating pattern", "dietary intake"},
	"autism":         {"autism spectrum disorder", "ASD"},
}

// stopwords are dropped before concept extraction
var stopwords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
	"yourself", "yourselves", "he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "these", "those", "am", "is", "are", "was", "were", "be",
	"been", "being", "have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of", "at", "by",
	"for", "with", "about", "against", "between", "into", "through", "during", "before",
	"after", "above", "below", "to", "from", "up", "down", "in", "out", "on", "off", "over",
	"under", "again", "further", "then", "once", "here", "there", "when", "where", "why",
	"how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very", "can", "will", "just",
	"don", "should", "now", "could", "would", "might", "must", "shall", "may",
)

// invariantNouns end in "s" but are already singular
var invariantNouns = toSet(
	"diabetes", "species", "series", "news", "physics", "mathematics", "statistics",
	"genetics", "economics", "measles", "mumps", "herpes", "rabies", "lens",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
