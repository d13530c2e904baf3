package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/snippet"
)

var (
	snippetFlags  requestFlags
	snippetMethod string
	snippetCopy   bool
)

func init() {
	snippetCmd := &cobra.Command{
		Use:   "snippet <curl|fetch> <url>",
		Short: "Print a request as a cURL command or fetch() call",
		Long: `Print a request as equivalent client code without sending it.

Example:
  apitester snippet curl https://api.example.com/users -X POST -d '{"name":"Ada"}' --bearer TOKEN
  apitester snippet fetch starwars/people/1 --copy`,
		Args: cobra.ExactArgs(2),
		Run:  runSnippet,
	}

	addFormFlags(snippetCmd, &snippetFlags)
	snippetCmd.Flags().StringVarP(&snippetMethod, "method", "X", model.MethodGet, "HTTP method")
	snippetCmd.Flags().BoolVar(&snippetCopy, "copy", false, "Copy the snippet to the clipboard")

	rootCmd.AddCommand(snippetCmd)
}

func runSnippet(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to generate snippet")
	defer a.close()

	desc, err := buildRequest(a, snippetMethod, args[1], snippetFlags)
	if err != nil {
		fail("Invalid request", err)
	}

	code, err := snippet.Generate(snippet.Language(args[0]), desc)
	if err != nil {
		fail("Failed to generate snippet", err)
	}

	format.PrintSnippet(code)

	if snippetCopy {
		if err := format.Copy(code); err != nil {
			fail("Failed to copy snippet", err)
		}
		format.PrintSuccess(fmt.Sprintf("%s snippet copied to clipboard", args[0]))
	}
}
