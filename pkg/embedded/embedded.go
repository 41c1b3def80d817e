package embedded

import (
	_ "embed"
)

// Embed all prompt data files
//
//go:embed data/prompts/hint_system_prompt.txt
var HintSystemPromptTxt []byte

//go:embed data/prompts/hint_output_instructions.txt
var HintOutputInstructionsTxt []byte

//go:embed data/prompts/closing_request.txt
var ClosingRequestTxt []byte
