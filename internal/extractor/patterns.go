package extractor

import "regexp"

// FallbackKeyword is returned when the input yields no usable token.
const FallbackKeyword = "product"

// stopWords are dropped during tokenization. Mostly administrative
// boilerplate that appears in nearly every procurement notice and carries
// no product signal.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "without": true,
	"from": true, "into": true, "under": true, "about": true, "per": true,
	"law": true, "record": true, "registration": true, "price": true,
	"prices": true, "auction": true, "tender": true, "bidding": true,
	"contracting": true, "acquisition": true, "procurement": true,
	"purchase": true, "supply": true, "provision": true,
	"service": true, "services": true, "work": true, "works": true,
	"process": true, "notice": true, "edict": true, "object": true,
	"item": true, "items": true, "various": true, "several": true,
	"type": true, "types": true, "according": true, "description": true,
	"specification": true, "specifications": true, "through": true,
	"eventual": true, "future": true, "aimed": true, "intended": true,
	"regarding": true, "related": true, "relative": true,
	"agreement": true, "terms": true, "term": true, "conditions": true,
	"annex": true, "annexes": true, "spreadsheet": true, "spreadsheets": true,
	"memorial": true, "descriptive": true, "budget": true, "budgetary": true,
	"schedule": true, "project": true, "reference": true,
	"one": true, "two": true, "three": true, "four": true, "five": true,
	"meet": true, "perform": true, "execute": true, "provide": true,
	"install": true, "installed": true, "deliver": true,
	"company": true, "companies": true, "branch": true, "pertinent": true,
	"execution": true, "present": true, "being": true, "has": true,
	"objective": true, "department": true, "secretariat": true,
}

// productPatterns match known product families. A hit puts the token in the
// "product" tier.
var productPatterns = []*regexp.Regexp{
	// electronics
	regexp.MustCompile(`(?i)notebook|laptop|computer|desktop|workstation`),
	regexp.MustCompile(`(?i)printer|scanner|copier|multifunction`),
	regexp.MustCompile(`(?i)ink|cartridge|toner|ribbon`),
	regexp.MustCompile(`(?i)tablet|ipad|phone|smartphone`),
	regexp.MustCompile(`(?i)router|switch|modem|firewall|access\s*point`),
	regexp.MustCompile(`(?i)projector|television|monitor|display`),
	regexp.MustCompile(`(?i)server|storage|backup|rack`),
	// furniture
	regexp.MustCompile(`(?i)chair|table|desk|cabinet|shelf|shelving|counter`),
	regexp.MustCompile(`(?i)sofa|armchair|bench|seating`),
	// office supplies
	regexp.MustCompile(`(?i)paper|bond|a4|legal`),
	regexp.MustCompile(`(?i)pen|pencil|eraser|stapler|clip`),
	// apparel
	regexp.MustCompile(`(?i)uniform|shirt|pants|coat|apron|shoe|boot`),
	// health
	regexp.MustCompile(`(?i)medicine|medication|drug|vaccine|serum`),
	regexp.MustCompile(`(?i)equipment|apparatus|scalpel|stethoscope`),
	// vehicles
	regexp.MustCompile(`(?i)vehicle|car|bus|truck|ambulance|motorcycle`),
	regexp.MustCompile(`(?i)fuel|gasoline|diesel|ethanol`),
	// food
	regexp.MustCompile(`(?i)food|meal|lunch|basket|staple`),
	// construction
	regexp.MustCompile(`(?i)cement|sand|gravel|brick|tile|wood|lumber|iron|steel`),
	regexp.MustCompile(`(?i)pergola|roofing|structure|guardhouse`),
	regexp.MustCompile(`(?i)paving|asphalt|sidewalk|concrete`),
	// cleaning
	regexp.MustCompile(`(?i)cleaning|sanitizing|disinfection`),
	regexp.MustCompile(`(?i)broom|squeegee|cloth|detergent|soap`),
}

// knownBrands get the highest base relevance.
var knownBrands = map[string]bool{
	"hp": true, "dell": true, "lenovo": true, "asus": true, "acer": true,
	"samsung": true, "lg": true, "apple": true, "positivo": true,
	"canon": true, "epson": true, "brother": true, "xerox": true, "ricoh": true,
	"intel": true, "amd": true, "nvidia": true, "cisco": true,
	"microsoft": true, "windows": true, "office": true, "adobe": true,
}

// nucleusNouns are concrete product nouns checked first when picking the
// single most important word of a derived search term.
var nucleusNouns = []string{
	// office supplies
	"paper", "pen", "pencil", "stapler", "clip", "envelope", "notebook",
	"ink", "cartridge", "toner", "ribbon",
	// electronics
	"computer", "laptop", "desktop", "tablet", "phone", "smartphone",
	"printer", "scanner", "monitor", "keyboard", "mouse", "webcam",
	"router", "switch", "server", "nobreak", "stabilizer",
	"projector", "television",
	// furniture
	"chair", "table", "desk", "cabinet", "shelf", "counter",
	"sofa", "armchair", "bench", "drawer",
	// apparel
	"uniform", "shirt", "pants", "coat", "apron", "shoe", "boot", "vest",
	// health
	"medicine", "medication", "vaccine", "serum", "glove", "mask", "alcohol",
	"syringe", "needle", "gauze", "bandage", "stethoscope", "thermometer",
	// vehicles
	"vehicle", "car", "automobile", "bus", "truck", "ambulance", "motorcycle",
	"fuel", "gasoline", "diesel", "ethanol", "tire", "battery",
	// food
	"food", "meal", "basket", "rice", "bean", "milk", "meat",
	"bread", "pasta", "oil", "sugar", "salt", "coffee",
	// construction
	"cement", "sand", "gravel", "brick", "tile", "wood", "iron", "steel",
	"lime", "plaster", "mortar", "ceramic", "floor",
	"door", "window", "faucet", "shower", "sink",
	// cleaning
	"detergent", "soap", "disinfectant", "chlorine", "bleach",
	"broom", "squeegee", "cloth", "bucket", "mop", "brush",
	// utilities
	"water", "energy", "gas", "oxygen", "conditioner",
}

// corePhrasePatterns capture the object of a procurement notice, e.g.
// "acquisition of 10 notebooks for the education department". The first
// capture group is the core phrase.
var corePhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)has\s+as\s+its\s+(?:object|objective)\s+the\s+(?:contracting|acquisition|provision|supply|execution)\s+of\s+(.+?)(?:\s+(?:for|aimed|according|pursuant)\b|[,.]|$)`),
	regexp.MustCompile(`(?i)aimed\s+at\s+the\s+(?:contracting|acquisition|provision|supply)\s+of\s+(.+?)(?:\s+(?:for|according|pursuant)\b|[,.]|$)`),
	regexp.MustCompile(`(?i)price\s+registration\s+for\s+(?:the\s+)?(?:eventual\s+)?(?:contracting|acquisition|supply)\s+of\s+(.+?)(?:\s+(?:according|pursuant)\b|[,.]|$)`),
	regexp.MustCompile(`(?i)(?:contracting|acquisition|provision|supply)\s+of\s+(.+?)(?:\s+(?:for|aimed|according|pursuant|intended|to\s+be)\b|[,.]|$)`),
	regexp.MustCompile(`(?i)works\s+of\s+["']?([^"',.]+)["']?`),
	regexp.MustCompile(`(?i)services\s+of\s+["']?([^"',.]+)["']?`),
}

// quotedPattern pulls substrings wrapped in straight or curly quotes.
var quotedPattern = regexp.MustCompile(`"([^"]+)"|'([^']+)'|“([^”]+)”`)

// boilerplatePatterns wipe administrative noise before tokenization: law
// citations, process/notice numbers, annex references, bare years and long
// numeric runs.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)law\s+no\.?\s*\d+[./]\d+`),
	regexp.MustCompile(`(?i)process\s+no\.?\s*[\d\-/.]+`),
	regexp.MustCompile(`(?i)(?:notice|edict)\s+no\.?\s*[\d\-/.]+`),
	regexp.MustCompile(`(?i)(?:electronic\s+)?auction\s+no\.?\s*[\d\-/.]+`),
	regexp.MustCompile(`(?i)annex\s+[ivxlcdm]+\b`),
	regexp.MustCompile(`(?i)terms?\s+of\s+reference`),
	regexp.MustCompile(`\b20\d{2}\b`),
	regexp.MustCompile(`\b\d{4,}\b`),
}

// nonAlnumPattern splits tokens on anything outside letters and digits.
var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// digitPattern detects spec-code tokens such as "a4" or "i5".
var digitPattern = regexp.MustCompile(`\d`)
