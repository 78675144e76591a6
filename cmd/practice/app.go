package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/terrywang1985/english-practice/internal/content"
	"github.com/terrywang1985/english-practice/internal/domain/question"
	"github.com/terrywang1985/english-practice/internal/domain/session"
	"github.com/terrywang1985/english-practice/internal/progress"
	"github.com/terrywang1985/english-practice/internal/results"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// App drives the interactive menu and session loop.
type App struct {
	sync     *content.Synchronizer
	progress *progress.Store
	results  *results.Store
	perRound int
	in       *bufio.Scanner
	out      io.Writer
}

func (a *App) Run() error {
	for {
		a.showMenu()

		line, ok := a.readLine("> ")
		if !ok {
			return nil
		}

		switch input := strings.TrimSpace(strings.ToLower(line)); input {
		case "q", "quit":
			return nil
		case "f", "free":
			a.freePractice()
		default:
			gradeID, err := strconv.Atoi(input)
			if err != nil || gradeID < 1 {
				fmt.Fprintln(a.out, "Enter a grade number, 'f' for free practice, or 'q' to quit.")
				continue
			}
			a.playGrade(gradeID)
		}
	}
}

func (a *App) showMenu() {
	p := a.progress.Get()
	fmt.Fprintf(a.out, "\n=== English Practice (total score %d) ===\n", p.TotalScore)

	cfg, err := a.sync.GradesConfig(context.Background())
	if err != nil {
		fmt.Fprintln(a.out, "Grade list unavailable (offline, nothing cached).")
	} else {
		for _, g := range cfg.Grades {
			status := "locked"
			switch {
			case p.IsCompleted(g.GradeID):
				status = fmt.Sprintf("completed, score %d", p.Score(g.GradeID))
			case p.IsUnlocked(g.GradeID):
				status = "unlocked"
			}
			fmt.Fprintf(a.out, "  %d. %s — %s\n", g.GradeID, g.Name, status)
		}
	}
	fmt.Fprintln(a.out, "Pick a grade number, 'f' for free practice, 'q' to quit.")
}

func (a *App) playGrade(gradeID int) {
	if !a.progress.IsUnlocked(gradeID) {
		fmt.Fprintln(a.out, "That grade is still locked. Clear the earlier ones first.")
		return
	}

	res, err := a.sync.SyncGrade(context.Background(), gradeID)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load that grade: no connection and no offline copy.")
		return
	}
	if res.Source == content.SourceCache {
		fmt.Fprintln(a.out, "(offline copy)")
	}

	count := res.Grade.TotalQuestions
	if count <= 0 {
		count = a.perRound
	}

	id, err := a.runSession(res.Grade.Questions, count, gradeID)
	if err != nil {
		fmt.Fprintln(a.out, "This grade has no questions yet.")
		return
	}
	a.showResult(id)
}

func (a *App) freePractice() {
	res := a.sync.SyncGlobal(context.Background())
	switch res.Source {
	case content.SourceCache:
		fmt.Fprintln(a.out, "(offline copy)")
	case content.SourceBackup:
		fmt.Fprintln(a.out, "(built-in practice set)")
	}

	id, err := a.runSession(res.Bundle.Questions, a.perRound, 0)
	if err != nil {
		fmt.Fprintln(a.out, "No questions available.")
		return
	}
	a.showResult(id)
}

// runSession walks one session on the terminal and parks the summary in
// the results store, returning its id.
func (a *App) runSession(pool []question.Question, count, gradeID int) (string, error) {
	engine, err := session.New(pool, count)
	if err != nil {
		return "", err
	}

	for {
		a.askQuestion(engine)
		if !engine.Advance() {
			break
		}
	}

	return a.results.Put(results.Entry{
		GradeID: gradeID,
		Summary: engine.Finish(),
	}), nil
}

func (a *App) askQuestion(engine *session.Engine) {
	q := engine.Current()
	fmt.Fprintf(a.out, "\n[%d/%d] %s\n", engine.Cursor()+1, engine.Total(), q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(a.out, "  %s. %s\n", label(i), opt)
	}

	for {
		line, ok := a.readLine("Your answer: ")
		if !ok {
			return
		}
		engine.SelectOption(labelIndex(line))

		record, err := engine.SubmitAnswer()
		if errors.Is(err, session.ErrNoSelection) {
			fmt.Fprintln(a.out, "Please choose one of the options.")
			continue
		}

		if record.IsCorrect {
			fmt.Fprintln(a.out, "Correct!")
		} else {
			fmt.Fprintf(a.out, "Wrong — the answer is %s.\n", record.Correct)
		}
		if record.Explanation != "" {
			fmt.Fprintf(a.out, "  %s\n", record.Explanation)
		}
		return
	}
}

func (a *App) showResult(id string) {
	entry, ok := a.results.Take(id)
	if !ok {
		return
	}
	sum := entry.Summary

	fmt.Fprintf(a.out, "\nDone: %d/%d correct (%d%%) — %s\n",
		sum.Correct, sum.Total, sum.Accuracy(), sum.Verdict())
	for _, r := range sum.Wrong() {
		fmt.Fprintf(a.out, "  missed: %s (answer: %s)\n", r.Prompt, r.Correct)
	}

	if entry.GradeID == 0 {
		return
	}

	before := a.progress.Get().Frontier
	updated := a.progress.RecordAttempt(entry.GradeID, sum.Correct, sum.Total)
	if updated.Frontier > before {
		fmt.Fprintf(a.out, "Grade %d cleared — grade %d unlocked!\n", entry.GradeID, updated.Frontier)
	} else if sum.Passed() {
		fmt.Fprintf(a.out, "Passed with %d%%. A perfect run unlocks the next grade.\n", sum.Accuracy())
	}
}

func (a *App) readLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

func label(i int) string {
	if i < len(optionLabels) {
		return optionLabels[i]
	}
	return strconv.Itoa(i + 1)
}

// labelIndex maps "A"/"b"/"2" style input to an option index, -1 when it
// is nothing of the sort.
func labelIndex(input string) int {
	input = strings.TrimSpace(strings.ToUpper(input))
	if input == "" {
		return -1
	}
	for i, l := range optionLabels {
		if input == l {
			return i
		}
	}
	if n, err := strconv.Atoi(input); err == nil {
		return n - 1
	}
	return -1
}
