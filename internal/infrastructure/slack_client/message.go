package slack_client

const (
	BlockTypeHeader  = "header"
	BlockTypeSection = "section"
	BlockTypeContext = "context"
)

const (
	TextTypePlainText = "plain_text"
	TextTypeMrkdwn    = "mrkdwn"
)

// Message is an incoming-webhook payload. Text is the notification fallback
// shown by clients that do not render blocks.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Fields   []TextObject `json:"fields,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func PlainText(s string) *TextObject {
	return &TextObject{Type: TextTypePlainText, Text: s}
}

func Mrkdwn(s string) TextObject {
	return TextObject{Type: TextTypeMrkdwn, Text: s}
}

func HeaderBlock(s string) Block {
	return Block{Type: BlockTypeHeader, Text: PlainText(s)}
}

func SectionFields(fields ...TextObject) Block {
	return Block{Type: BlockTypeSection, Fields: fields}
}

func SectionText(s string) Block {
	t := Mrkdwn(s)
	return Block{Type: BlockTypeSection, Text: &t}
}

func ContextBlock(elements ...TextObject) Block {
	return Block{Type: BlockTypeContext, Elements: elements}
}
