package augment

// Word lists for the rule-based transformations. Keys are lowercase.

var abbreviations = map[string][]string{
	"you": {"u"}, "are": {"r"}, "see": {"c"}, "why": {"y"}, "okay": {"ok", "k"},
	"please": {"pls", "plz"}, "thanks": {"thx"}, "tomorrow": {"tmrw", "2moro"},
	"tonight": {"2nite"}, "today": {"2day"}, "before": {"b4"}, "great": {"gr8"},
	"later": {"l8r"}, "because": {"bc", "cuz"}, "people": {"ppl"}, "message": {"msg"},
	"something": {"sth"}, "someone": {"sb"}, "probably": {"prob"}, "about": {"abt"},
	"with": {"w/"}, "without": {"w/o"}, "your": {"ur"}, "really": {"rly"},
	"tonite": {"2nite"}, "for": {"4"}, "to": {"2"}, "be": {"b"}, "and": {"&", "n"},
	"text": {"txt"}, "weekend": {"wknd"}, "minutes": {"mins"}, "seconds": {"secs"},
	"favorite": {"fav"}, "information": {"info"}, "between": {"btw"},
}

var internetAcronyms = compilePhrases(map[string]string{
	"as soon as possible":   "ASAP",
	"by the way":            "BTW",
	"in my opinion":         "IMO",
	"in my humble opinion":  "IMHO",
	"laughing out loud":     "LOL",
	"oh my god":             "OMG",
	"to be honest":          "TBH",
	"for your information":  "FYI",
	"i don't know":          "IDK",
	"in real life":          "IRL",
	"talk to you later":     "TTYL",
	"be right back":         "BRB",
	"never mind":            "NVM",
	"thank you":             "TY",
	"not gonna lie":         "NGL",
	"as far as i know":      "AFAIK",
	"in case you missed it": "ICYMI",
})

var acronyms = compilePhrases(map[string]string{
	"united states":              "US",
	"united kingdom":             "UK",
	"european union":             "EU",
	"united nations":             "UN",
	"artificial intelligence":    "AI",
	"machine learning":           "ML",
	"chief executive officer":    "CEO",
	"frequently asked questions": "FAQ",
	"do it yourself":             "DIY",
	"with respect to":            "wrt",
	"for example":                "e.g.",
	"and so on":                  "etc.",
	"estimated time of arrival":  "ETA",
	"public relations":           "PR",
	"television":                 "TV",
})

var homophones = map[string][]string{
	"their": {"there", "they're"}, "there": {"their", "they're"}, "they're": {"their", "there"},
	"to": {"too", "two"}, "too": {"to"}, "two": {"too", "to"},
	"your": {"you're"}, "you're": {"your"}, "its": {"it's"}, "it's": {"its"},
	"then": {"than"}, "than": {"then"}, "know": {"no"}, "no": {"know"},
	"write": {"right"}, "right": {"write"}, "hear": {"here"}, "here": {"hear"},
	"by": {"buy", "bye"}, "buy": {"by", "bye"}, "for": {"four"}, "four": {"for"},
	"one": {"won"}, "won": {"one"}, "see": {"sea"}, "sea": {"see"},
	"weather": {"whether"}, "whether": {"weather"}, "week": {"weak"}, "weak": {"week"},
	"whole": {"hole"}, "hole": {"whole"}, "wear": {"where"}, "where": {"wear"},
	"whose": {"who's"}, "who's": {"whose"}, "would": {"wood"}, "knew": {"new"}, "new": {"knew"},
	"piece": {"peace"}, "peace": {"piece"}, "break": {"brake"}, "brake": {"break"},
	"meet": {"meat"}, "meat": {"meet"}, "passed": {"past"}, "past": {"passed"},
	"allowed": {"aloud"}, "aloud": {"allowed"}, "accept": {"except"},
}

var contractions = map[string]string{
	"do not": "don't", "does not": "doesn't", "did not": "didn't",
	"is not": "isn't", "are not": "aren't", "was not": "wasn't", "were not": "weren't",
	"cannot": "can't", "will not": "won't", "would not": "wouldn't",
	"should not": "shouldn't", "could not": "couldn't", "have not": "haven't",
	"has not": "hasn't", "had not": "hadn't", "must not": "mustn't",
	"i am": "i'm", "you are": "you're", "we are": "we're", "they are": "they're",
	"it is": "it's", "that is": "that's", "there is": "there's", "what is": "what's",
	"i will": "i'll", "you will": "you'll", "we will": "we'll", "they will": "they'll",
	"i have": "i've", "you have": "you've", "we have": "we've", "they have": "they've",
	"i would": "i'd", "you would": "you'd", "let us": "let's",
}

var dyslexiaSwaps = map[string][]string{
	"from": {"form"}, "form": {"from"}, "quiet": {"quite"}, "quite": {"quiet"},
	"affect": {"effect"}, "effect": {"affect"}, "lose": {"loose"}, "loose": {"lose"},
	"angel": {"angle"}, "angle": {"angel"}, "desert": {"dessert"}, "dessert": {"desert"},
	"advice": {"advise"}, "advise": {"advice"}, "breath": {"breathe"}, "breathe": {"breath"},
	"were": {"where"}, "though": {"through"}, "through": {"though"}, "was": {"saw"},
	"saw": {"was"}, "on": {"no"}, "god": {"dog"}, "dog": {"god"}, "now": {"own"},
	"own": {"now"}, "felt": {"left"}, "left": {"felt"}, "tired": {"tried"}, "tried": {"tired"},
}

var misspellings = map[string][]string{
	"receive": {"recieve"}, "definitely": {"definately", "definitly"}, "separate": {"seperate"},
	"because": {"becuase", "becasue"}, "believe": {"beleive"}, "tomorrow": {"tommorow", "tomorow"},
	"until": {"untill"}, "which": {"wich"}, "really": {"realy"}, "friend": {"freind"},
	"weird": {"wierd"}, "necessary": {"neccessary", "necesary"}, "beginning": {"begining"},
	"government": {"goverment"}, "address": {"adress"}, "occurred": {"occured"},
	"environment": {"enviroment"}, "probably": {"probly"}, "different": {"diffrent"},
	"business": {"buisness"}, "already": {"allready"}, "surprise": {"suprise"},
	"tongue": {"tounge"}, "truly": {"truely"}, "wednesday": {"wensday"}, "across": {"accross"},
	"argument": {"arguement"}, "calendar": {"calender"}, "embarrass": {"embarass"},
	"existence": {"existance"}, "finally": {"finaly"}, "forward": {"foward"},
	"immediately": {"immediatly"}, "knowledge": {"knowlege"}, "library": {"libary"},
	"pronunciation": {"pronounciation"}, "restaurant": {"restaraunt"}, "success": {"sucess"},
	"the": {"teh"}, "what": {"wat"}, "with": {"wiht"}, "again": {"agian"},
}

var slang = map[string][]string{
	"friend": {"mate", "buddy"}, "friends": {"mates", "homies"}, "money": {"dough", "cash"},
	"police": {"cops"}, "very": {"hella", "super"}, "good": {"dope"}, "cool": {"lit"},
	"excellent": {"sick"}, "angry": {"salty"}, "girlfriend": {"gf"}, "boyfriend": {"bf"},
	"food": {"grub"}, "house": {"crib"}, "car": {"ride"}, "yes": {"yeah", "yep"},
	"no": {"nah", "nope"}, "man": {"dude", "bro"}, "great": {"awesome"},
	"excited": {"hyped"}, "tired": {"beat"}, "exhausted": {"wiped"}, "party": {"bash"},
	"children": {"kids"}, "relax": {"chill"}, "annoying": {"extra"},
}

var slangPhrases = compilePhrases(map[string]string{
	"going to":    "gonna",
	"want to":     "wanna",
	"got to":      "gotta",
	"kind of":     "kinda",
	"sort of":     "sorta",
	"let me":      "lemme",
	"give me":     "gimme",
	"do you know": "d'you know",
	"out of":      "outta",
})

var dateAbbreviations = map[string]string{
	"monday": "Mon.", "tuesday": "Tue.", "wednesday": "Wed.", "thursday": "Thu.",
	"friday": "Fri.", "saturday": "Sat.", "sunday": "Sun.",
	"january": "Jan.", "february": "Feb.", "march": "Mar.", "april": "Apr.",
	"june": "Jun.", "july": "Jul.", "august": "Aug.", "september": "Sep.",
	"october": "Oct.", "november": "Nov.", "december": "Dec.",
}
