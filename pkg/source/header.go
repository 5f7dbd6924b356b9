package source

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/texgen/pkg/subst"
)

// SupportedVersion is the document format version this build
// understands.
const SupportedVersion = "1.0"

// DefaultInputMethod is used when a document does not name one.
const DefaultInputMethod = "minimal"

var versionLineRE = regexp.MustCompile(`^\.\. texgen ([0-9]+(?:\.[0-9]+)*)$`)

// Header is the metadata a document declares before its content: the
// character encoding, the input methods to load, and the format
// version.
type Header struct {
	Encoding     string
	InputMethods []string
	Version      string
}

// DetectHeader extracts the document header from decoded text. The
// first line may be an Emacs-style local variables comment; the leading
// comment block must contain a ".. texgen <version>" line. path is used
// in error messages only.
func DetectHeader(text, path string) (Header, error) {
	header := Header{
		Encoding:     "utf-8",
		InputMethods: []string{DefaultInputMethod},
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if first {
			first = false
			vars, err := subst.ParseLocalVariables(line, false, ".. ")
			if err != nil {
				return Header{}, &LocalVariablesError{Path: path, Msg: err.Error()}
			}
			if len(vars) > 0 {
				if coding := subst.LocalVariable(vars, "coding", ""); coding != "" {
					header.Encoding = coding
				}
				if methods, ok := vars["input-method"]; ok {
					header.InputMethods = methods
				}
				continue
			}
		}

		if m := versionLineRE.FindStringSubmatch(line); m != nil {
			header.Version = m[1]
			break
		}

		if line == "" || line == ".." || strings.HasPrefix(line, ".. ") {
			continue
		}
		break
	}

	if header.Version == "" {
		return Header{}, &FileError{Path: path, Msg: `missing ".. texgen" header line`}
	}
	if header.Version != SupportedVersion {
		return Header{}, &FileError{
			Path: path,
			Msg:  fmt.Sprintf("unsupported format version %s", header.Version),
		}
	}
	return header, nil
}
