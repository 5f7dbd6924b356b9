package subst

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// methodExt is the file extension of input-method description files.
const methodExt = ".tim"

//go:embed methods
var builtinMethods embed.FS

var methodLineRE = regexp.MustCompile(
	`^(?P<match>.+?)\t+((?P<dec>#\d+)|(?P<hex>0x[0-9a-fA-F]+)|(?P<replacement>.))([ \t]+.*)?$`)

// Load reads the named input methods and merges their rules into a
// single Set. A method is looked up as <name>.tim in searchDirs first
// and in the built-in methods last. The reserved name "none" yields an
// empty set.
func Load(names []string, searchDirs ...string) (*Set, error) {
	var pre, post []Rule
	seen := map[string]bool{}

	for _, name := range names {
		if err := loadOne(name, searchDirs, seen, &pre, &post); err != nil {
			return nil, err
		}
	}

	return &Set{
		Pre:  NewTable(normalize(pre)),
		Post: NewTable(normalize(post)),
	}, nil
}

func loadOne(name string, searchDirs []string, seen map[string]bool, pre, post *[]Rule) error {
	if name == "none" {
		return nil
	}
	if seen[name] {
		// Parental chains may legitimately share ancestors; load once.
		return nil
	}
	seen[name] = true

	reader, path, err := openMethod(name, searchDirs)
	if err != nil {
		return err
	}
	defer reader.Close()

	return parseMethod(reader, path, name, searchDirs, seen, pre, post)
}

func openMethod(name string, searchDirs []string) (io.ReadCloser, string, error) {
	filename := name + methodExt
	for _, dir := range searchDirs {
		path := filepath.Join(dir, filename)
		f, err := os.Open(path)
		if err == nil {
			return f, path, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("open input method: %w", err)
		}
	}

	f, err := builtinMethods.Open("methods/" + filename)
	if err != nil {
		return nil, "", fmt.Errorf("unknown input method %q", name)
	}
	return f, filename, nil
}

func parseMethod(r io.Reader, path, name string, searchDirs []string, seen map[string]bool,
	pre, post *[]Rule) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return fmt.Errorf("%s: empty input method file", path)
	}
	vars, err := ParseLocalVariables(scanner.Text(), true, ".. ")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if LocalVariable(vars, "input-method-name", "") != name {
		return fmt.Errorf("%s: input method name in first line does not match file name", path)
	}

	if !scanner.Scan() || strings.TrimRight(scanner.Text(), " \t\r") != ".. texgen input method" {
		return fmt.Errorf("%s: second line is invalid", path)
	}

	for _, parent := range vars["parental-input-method"] {
		if err := loadOne(parent, searchDirs, seen, pre, post); err != nil {
			return err
		}
	}

	lineno := 2
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.TrimRight(line, " \t") == ".." ||
			strings.HasPrefix(line, ".. ") {
			continue
		}

		rule, err := parseRuleLine(line)
		if err != nil {
			return fmt.Errorf("%s: line %d: %w", path, lineno, err)
		}
		if rule.Post {
			*post = append(*post, rule)
		} else {
			*pre = append(*pre, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func parseRuleLine(line string) (Rule, error) {
	m := methodLineRE.FindStringSubmatch(line)
	if m == nil {
		return Rule{}, fmt.Errorf("invalid substitution line")
	}

	groups := map[string]string{}
	for i, name := range methodLineRE.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}

	raw := groups["match"]
	rule := Rule{Raw: raw}

	if rest, ok := strings.CutPrefix(rule.Raw, "POST::"); ok {
		rule.Post = true
		rule.Raw = rest
	}
	if rest, ok := strings.CutPrefix(rule.Raw, "REGEX::"); ok {
		rule.IsRegex = true
		rule.Raw = rest
	}

	pattern := rule.Raw
	if rule.IsRegex {
		probe, err := regexp.Compile("(?:" + pattern + ")?")
		if err != nil {
			return Rule{}, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if probe.NumSubexp() > 0 {
			return Rule{}, fmt.Errorf("pattern %q contains a group", pattern)
		}
	} else {
		pattern = regexp.QuoteMeta(pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	rule.Pattern = compiled

	switch {
	case groups["dec"] != "":
		n, err := strconv.ParseInt(groups["dec"][1:], 10, 32)
		if err != nil {
			return Rule{}, fmt.Errorf("bad decimal replacement: %w", err)
		}
		rule.Replacement = string(rune(n))
	case groups["hex"] != "":
		n, err := strconv.ParseInt(groups["hex"][2:], 16, 32)
		if err != nil {
			return Rule{}, fmt.Errorf("bad hex replacement: %w", err)
		}
		rule.Replacement = string(rune(n))
	default:
		rule.Replacement = groups["replacement"]
	}

	return rule, nil
}

// normalize removes duplicate patterns, keeping the last occurrence, as
// later method files (and child methods) override earlier ones.
func normalize(rules []Rule) []Rule {
	seen := map[string]bool{}
	var kept []Rule
	for i := len(rules) - 1; i >= 0; i-- {
		key := rules[i].Raw
		if rules[i].IsRegex {
			key = "REGEX::" + key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, rules[i])
	}
	// Restore file order among the survivors.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
