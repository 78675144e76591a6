package content

import "github.com/terrywang1985/english-practice/internal/domain/question"

// backupVersion marks a bundle as coming from the embedded dataset rather
// than any server release.
const backupVersion = "backup"

// backupBundle returns the small dataset shipped inside the client, used
// only when the server is unreachable and nothing has ever been cached.
func backupBundle() question.Bundle {
	questions := []question.Question{
		{
			ID:           "t1",
			Type:         question.TypeConversion,
			Prompt:       "Singular: baby",
			Options:      []string{"babys", "babies", "babyes", "baby's"},
			CorrectIndex: 1,
			Explanation:  "baby ends in consonant + y: change y to i and add es, giving babies",
			Tag:          "y-to-ies",
		},
		{
			ID:           "t2",
			Type:         question.TypeConversion,
			Prompt:       "Singular: child",
			Options:      []string{"childs", "children", "childes", "childen"},
			CorrectIndex: 1,
			Explanation:  "child is irregular: the plural is children",
			Tag:          "irregular",
		},
		{
			ID:           "s1",
			Type:         question.TypeSentence,
			Prompt:       "There are three ______ in the box.",
			Options:      []string{"child", "children", "childs", "childes"},
			CorrectIndex: 1,
			Explanation:  "'three' calls for a plural; child is irregular, so children",
			Tag:          "counted irregular plural",
		},
	}

	return question.Bundle{
		Version:   backupVersion,
		Total:     len(questions),
		Tags:      question.Tags(questions),
		Questions: questions,
	}
}
