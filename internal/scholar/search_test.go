// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeSession records the calls the searcher makes and serves a canned
// page source.
type fakeSession struct {
	source    string
	openErr   error
	submitErr error
	sourceErr error

	openedURL string
	submitted string
	closed    int
}

func (f *fakeSession) Open(_ context.Context, url string) error {
	f.openedURL = url
	return f.openErr
}

func (f *fakeSession) TypeAndSubmit(_ context.Context, _, text string) error {
	f.submitted = text
	return f.submitErr
}

func (f *fakeSession) PageSource(context.Context) (string, error) {
	return f.source, f.sourceErr
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

func newFakeSearcher(sess *fakeSession) *Searcher {
	return &Searcher{
		NewSession: func(context.Context) (Session, error) { return sess, nil },
		Resolver:   NoopResolver{},
		Sleep:      func(time.Duration) {},
	}
}

func resultPage(entries ...string) string {
	var b bytes.Buffer
	b.WriteString("<html><body>")
	for _, e := range entries {
		b.WriteString(e)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func resultNode(title, href string) string {
	anchor := ""
	if href != "" {
		anchor = fmt.Sprintf(`<a href=%q>%s</a>`, href, title)
	} else {
		anchor = title
	}
	return fmt.Sprintf(`<div class="gs_r gs_or gs_scl"><h3 class="gs_rt">%s</h3></div>`, anchor)
}

func TestSearch_ExtractsTitleLinkPairs(t *testing.T) {
	sess := &fakeSession{source: resultPage(
		resultNode("Paper One", "https://a.example/one.pdf"),
		resultNode("Paper Two", "https://a.example/two"),
		resultNode("Paper Three", ""),
	)}
	s := newFakeSearcher(sess)

	var out bytes.Buffer
	got, err := s.Search(context.Background(), "(a AND b)", 20, &out)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Search() returned %d candidates, want 3", len(got))
	}
	if got[0].Title != "Paper One" || got[0].Link != "https://a.example/one.pdf" {
		t.Errorf("candidate 0 = %+v", got[0])
	}
	if got[1].Link != "https://a.example/two" {
		t.Errorf("non-PDF link kept as-is, got %q", got[1].Link)
	}
	if got[2].Link != "" {
		t.Errorf("anchorless result link = %q, want empty", got[2].Link)
	}
	if sess.submitted != "(a AND b)" {
		t.Errorf("submitted query = %q", sess.submitted)
	}
	if sess.closed != 1 {
		t.Errorf("session closed %d times, want 1", sess.closed)
	}
}

func TestSearch_BlockedPageReturnsEmpty(t *testing.T) {
	sess := &fakeSession{source: "<html><body>Please solve this CAPTCHA to continue</body></html>"}
	s := newFakeSearcher(sess)

	var out bytes.Buffer
	got, err := s.Search(context.Background(), "q", 20, &out)
	if err != nil {
		t.Fatalf("Search() error = %v, want nil on block", err)
	}
	if len(got) != 0 {
		t.Errorf("Search() returned %d candidates, want 0 on block", len(got))
	}
	if sess.closed != 1 {
		t.Errorf("session closed %d times, want 1", sess.closed)
	}
}

func TestSearch_TruncatesToNumResults(t *testing.T) {
	sess := &fakeSession{source: resultPage(
		resultNode("A", "https://a.example/a.pdf"),
		resultNode("B", "https://a.example/b.pdf"),
		resultNode("C", "https://a.example/c.pdf"),
	)}
	s := newFakeSearcher(sess)

	got, err := s.Search(context.Background(), "q", 2, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search() returned %d candidates, want 2", len(got))
	}
}

func TestSearch_SkipsUnparseableNodes(t *testing.T) {
	sess := &fakeSession{source: resultPage(
		`<div class="gs_r gs_or gs_scl"><span>no title node</span></div>`,
		resultNode("Good", "https://a.example/good.pdf"),
	)}
	s := newFakeSearcher(sess)

	got, err := s.Search(context.Background(), "q", 20, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Good" {
		t.Errorf("Search() = %+v, want the single parseable node", got)
	}
}

func TestSearch_ClosesSessionOnError(t *testing.T) {
	sess := &fakeSession{submitErr: errors.New("browser crashed")}
	s := newFakeSearcher(sess)

	_, err := s.Search(context.Background(), "q", 20, &bytes.Buffer{})
	if err == nil {
		t.Fatal("Search() error = nil, want submit error")
	}
	if sess.closed != 1 {
		t.Errorf("session closed %d times, want 1", sess.closed)
	}
}
