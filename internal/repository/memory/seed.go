package memory

import (
	"context"
	"fmt"

	"github.com/sakif/codevault/internal/model"
	"github.com/sakif/codevault/internal/repository"
)

// Examples are the two snippets every new dashboard starts with.
// They are listed in display order.
var Examples = []model.SnippetInput{
	{
		Title:       "React useState Hook",
		Description: "Basic useState example with counter",
		Code:        "const [count, setCount] = useState(0);\n\nconst increment = () => {\n  setCount(count + 1);\n};",
		Language:    "javascript",
		Category:    "React",
		Tags:        []string{"react", "hooks", "state"},
	},
	{
		Title:       "CSS Flexbox Center",
		Description: "Center content with flexbox",
		Code:        ".container {\n  display: flex;\n  justify-content: center;\n  align-items: center;\n  height: 100vh;\n}",
		Language:    "css",
		Category:    "CSS",
		Tags:        []string{"css", "flexbox", "center"},
	},
}

// Seed inserts Examples into repo. Create prepends, so the examples are
// inserted last-first to end up in display order.
func Seed(ctx context.Context, repo repository.SnippetRepository) error {
	for i := len(Examples) - 1; i >= 0; i-- {
		sn := &model.Snippet{}
		sn.Apply(Examples[i])
		if err := repo.Create(ctx, sn); err != nil {
			return fmt.Errorf("seeding %q: %w", Examples[i].Title, err)
		}
	}
	return nil
}
