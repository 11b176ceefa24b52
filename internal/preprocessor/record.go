package preprocessor

// Record maps the absolute path of an expanded file to the output line at
// which its content began. Entries are never removed.
type Record struct {
	at map[string]int
}

func NewRecord() *Record {
	return &Record{at: map[string]int{}}
}

func (r *Record) ExpandedAt(path string) (int, bool) {
	line, ok := r.at[path]
	return line, ok
}

func (r *Record) MarkExpanded(path string, line int) {
	r.at[path] = line
}

func (r *Record) Len() int { return len(r.at) }
