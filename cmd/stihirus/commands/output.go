package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"stihirus-reader/internal/scrapers/stihirus"
	"stihirus-reader/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// errEnvelope is returned by commands whose envelope carries an error, the
// error itself has already been printed.
type errEnvelope struct {
	info service.ErrorInfo
}

func (e errEnvelope) Error() string {
	return fmt.Sprintf("request failed with code %d", e.info.Code)
}

// render prints res either as JSON or through show, a failed envelope
// becomes a non-nil error.
func render[T any](out io.Writer, res service.Response[T], show func(io.Writer, T)) error {
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		err := encoder.Encode(res)
		if err != nil {
			return err
		}
	} else if res.Ok() {
		show(out, *res.Data)
	} else {
		fmt.Fprintf(os.Stderr, "error %d: %s\n", res.Error.Code, res.Error.Message)
		if res.Error.OriginalMessage != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", res.Error.OriginalMessage)
		}
	}
	if !res.Ok() {
		return errEnvelope{info: *res.Error}
	}
	return nil
}

func newTable(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func optional[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func truncate(s string, n int) string {
	return text.Trim(s, n)
}

func printProfile(out io.Writer, profile stihirus.AuthorProfile) {
	t := newTable(out, profile.DisplayName)
	t.AppendRows([]table.Row{
		{"Author id", profile.AuthorId},
		{"Username", profile.Username},
		{"Profile", profile.CanonicalProfileUrl},
		{"Status", profile.Status},
		{"Last visit", profile.LastVisitText},
		{"Premium", profile.IsPremium},
		{"Avatar", optional(profile.AvatarUrl)},
		{"Header", optional(profile.HeaderUrl)},
		{"Poems", profile.Stats.PoemsDeclared},
		{"Reviews sent", profile.Stats.ReviewsSent},
		{"Reviews received", profile.Stats.ReviewsReceived},
	})
	for _, c := range profile.Collections {
		t.AppendRow(table.Row{"Collection", fmt.Sprintf("%s (%s)", c.Name, c.Url)})
	}
	t.Render()

	if len(profile.Poems) > 0 {
		printPoemList(out, profile.Poems)
	}
}

func printPoemList(out io.Writer, poems []stihirus.Poem) {
	t := newTable(out, fmt.Sprintf("Poems (%d)", len(poems)))
	t.AppendHeader(table.Row{"Id", "Title", "Rubric", "Created", "Rating", "Comments"})
	for _, p := range poems {
		t.AppendRow(table.Row{p.Id, truncate(p.Title, 48), p.Rubric.Name, p.CreatedText, p.Rating, p.CommentsCount})
	}
	t.Render()
}

func printPoem(out io.Writer, poem stihirus.Poem) {
	t := newTable(out, poem.Title)
	t.AppendRows([]table.Row{
		{"Id", poem.Id},
		{"Created", poem.CreatedText},
		{"Rubric", poem.Rubric.Name},
		{"Collection", optional(poem.CollectionName)},
		{"Rating", poem.Rating},
		{"Comments", poem.CommentsCount},
		{"Uniqueness", strconv.Itoa(int(poem.UniquenessStatus))},
		{"Certificate", poem.HasCertificate},
	})
	if poem.Author != nil {
		t.AppendRow(table.Row{"Author", fmt.Sprintf("%s (%d)", poem.Author.Username, poem.Author.Id)})
	}
	if poem.Contest != nil {
		t.AppendRow(table.Row{"Contest", poem.Contest.Name})
	}
	if poem.HolidaySection != nil {
		t.AppendRow(table.Row{"Holiday", poem.HolidaySection.Title})
	}
	for _, gift := range poem.Gifts {
		t.AppendRow(table.Row{"Gift", gift})
	}
	t.Render()
	fmt.Fprintf(out, "\n%s\n", poem.Text)
}

func printFilters(out io.Writer, filters stihirus.AuthorFilters) {
	rubrics := newTable(out, "Rubrics")
	rubrics.AppendHeader(table.Row{"Id", "Name", "Poems"})
	for _, r := range filters.Rubrics {
		rubrics.AppendRow(table.Row{r.Id, r.Name, r.Count})
	}
	rubrics.Render()

	dates := newTable(out, "Dates")
	dates.AppendHeader(table.Row{"Year", "Month", "Poems"})
	for _, d := range filters.Dates {
		dates.AppendRow(table.Row{d.Year, d.Month, d.Count})
	}
	dates.Render()
}

func printAuthors(title string) func(io.Writer, []stihirus.HomepageAuthor) {
	return func(out io.Writer, authors []stihirus.HomepageAuthor) {
		t := newTable(out, title)
		t.AppendHeader(table.Row{"Name", "Username", "Profile", "Poems", "Rating"})
		for _, a := range authors {
			t.AppendRow(table.Row{a.Username, a.CanonicalUsername, a.ProfileUrl, optional(a.PoemsCount), optional(a.Rating)})
		}
		t.Render()
	}
}

func printPromoPoems(out io.Writer, poems []stihirus.HomepagePoem) {
	t := newTable(out, "Promoted poems")
	t.AppendHeader(table.Row{"Id", "Title", "Author", "Rating", "Comments"})
	for _, p := range poems {
		t.AppendRow(table.Row{p.Id, truncate(p.Title, 48), p.AuthorUsername, optional(p.Rating), optional(p.CommentsCount)})
	}
	t.Render()
}

func printHomepage(out io.Writer, homepage stihirus.Homepage) {
	printAuthors("Recommended authors")(out, homepage.RecommendedAuthors)
	printAuthors("Weekly rated authors")(out, homepage.WeeklyRatedAuthors)
	printAuthors("Active authors")(out, homepage.ActiveAuthors)
	printPromoPoems(out, homepage.PromoPoems)
}
