package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// SampleRows is a small fiqh dataset used for demos and tests: five passages
// from five classical sources discussing sale contract validity and gharar.
var SampleRows = []Row{
	{
		ID:        "mughni-1-45",
		BookTitle: "المغني",
		Author:    "ابن قدامة",
		SourceRef: "المغني، ج1، ص45",
		Volume:    "1",
		Page:      "45",
		Text:      "ومن شروط صحة البيع التراضي بين المتبايعين، وأن يكون المعقود عليه معلوماً مباحاً مقدوراً على تسليمه.",
	},
	{
		ID:        "majmoo-3-112",
		BookTitle: "المجموع",
		Author:    "النووي",
		SourceRef: "المجموع، ج3، ص112",
		Volume:    "3",
		Page:      "112",
		Text:      "وأما البيع بشرط مجهول فلا يصح عند جمهور أصحابنا، لأن الغرر منهي عنه في المعاوضات.",
	},
	{
		ID:        "fath-2-97",
		BookTitle: "فتح الباري",
		Author:    "ابن حجر",
		SourceRef: "فتح الباري، ج2، ص97",
		Volume:    "2",
		Page:      "97",
		Text:      "استدل العلماء بحديث النهي عن بيع الغرر على منع صور من البيوع يكثر فيها الجهالة والنزاع.",
	},
	{
		ID:        "bidaya-2-166",
		BookTitle: "بداية المجتهد",
		Author:    "ابن رشد",
		SourceRef: "بداية المجتهد، ج2، ص166",
		Volume:    "2",
		Page:      "166",
		Text:      "واختلفوا في بعض البيوع المستحدثة لاختلافهم في تحقيق معنى الغرر المؤثر في العقد.",
	},
	{
		ID:        "umm-3-25",
		BookTitle: "الأم",
		Author:    "الشافعي",
		SourceRef: "الأم، ج3، ص25",
		Volume:    "3",
		Page:      "25",
		Text:      "وأحب إلي أن يكون الثمن معلوماً والأجل معلوماً دفعاً للتنازع وقطعاً للخصومة.",
	},
}

// WriteSampleJSONL writes SampleRows as JSONL to path.
func WriteSampleJSONL(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating sample file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, row := range SampleRows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("writing sample row %s: %w", row.ID, err)
		}
	}
	return nil
}
