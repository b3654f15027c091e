package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Tokenizer
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedChar         Code = 1003
	LexUnterminatedBlockComment Code = 1004
	LexInvalidUTF8              Code = 1005

	// Bracket linking
	LinkInfo             Code = 2000
	LinkUnmatchedBracket Code = 2001

	// Checks
	CheckInfo               Code = 3000
	CheckInvalidFunctionArg Code = 3001
	CheckZeroDivision       Code = 3002

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Configuration
	CfgInfo          Code = 5000
	CfgInvalidFile   Code = 5001
	CfgUnknownOption Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Analyzer-internal errors
	InternalInfo      Code = 9000
	InternalInvariant Code = 9001
	InternalPanic     Code = 9002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Tokenizer information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedChar:         "Unterminated character literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexInvalidUTF8:              "Invalid UTF-8 sequence",
		LinkInfo:                    "Bracket linking information",
		LinkUnmatchedBracket:        "Unmatched bracket",
		CheckInfo:                   "Check information",
		CheckInvalidFunctionArg:     "Invalid function argument",
		CheckZeroDivision:           "Division by zero",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Token cache error",
		CfgInfo:                     "Configuration information",
		CfgInvalidFile:              "Invalid configuration file",
		CfgUnknownOption:            "Unknown configuration option",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		InternalInfo:                "Analyzer internal information",
		InternalInvariant:           "Analyzer internal error",
		InternalPanic:               "Analyzer crashed",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CHK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

// IsInternal reports whether c describes a failure of the analyzer itself.
func (c Code) IsInternal() bool { return c >= InternalInfo && c < 10000 }

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
