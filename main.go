package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"conceptc/colors"
	"conceptc/database"
	"conceptc/driver"
	"conceptc/examples"
	"conceptc/lower"

	"github.com/alecthomas/kong"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

type Context struct{}

type CheckCmd struct {
	Facts          bool
	FilterLines    []string `short:"l"`
	FilterFeedback []string
	Examples       []string `arg:"" optional:"" name:"example"`
}

func (cmd *CheckCmd) Run(ctx *Context) error {
	output, err := check(cmd)
	fmt.Print(output)
	if err != nil {
		return err
	}

	return nil
}

type LowerCmd struct {
	Examples []string `arg:"" optional:"" name:"example"`
}

func (cmd *LowerCmd) Run(ctx *Context) error {
	programs, err := selectPrograms(cmd.Examples)
	if err != nil {
		return err
	}

	for _, program := range programs {
		unit := driver.MakeUnit()
		err := driver.Check(context.Background(), unit, program)
		if err != nil {
			return err
		}

		for _, body := range program.Bodies {
			fmt.Printf("%s: %s\n", colors.Code(body.Name), lower.DisplayBody(body))
		}
	}

	return nil
}

type ListCmd struct{}

func (cmd *ListCmd) Run(ctx *Context) error {
	for _, name := range examples.Names() {
		fmt.Println(name)
	}

	return nil
}

var cli struct {
	Check CheckCmd `cmd:""`
	Lower LowerCmd `cmd:""`
	List  ListCmd  `cmd:""`

	Verbose int `short:"v" type:"counter"`
}

func main() {
	ctx := kong.Parse(&cli)
	commonlog.Configure(cli.Verbose, nil)

	err := ctx.Run(&Context{})
	ctx.FatalIfErrorf(err)
}

func selectPrograms(names []string) ([]*driver.Program, error) {
	if len(names) == 0 {
		return examples.Programs(), nil
	}

	programs := make([]*driver.Program, 0, len(names))
	for _, name := range names {
		program, ok := examples.Named(name)
		if !ok {
			return nil, fmt.Errorf("no example named %q", name)
		}

		programs = append(programs, program)
	}

	return programs, nil
}

func check(cmd *CheckCmd) (string, error) {
	programs, err := selectPrograms(cmd.Examples)
	if err != nil {
		return "", err
	}

	var filters []database.FilterFunc
	for _, entry := range cmd.FilterLines {
		entry = strings.Trim(entry, " =")

		split := strings.SplitN(entry, ":", 2)
		if len(split) == 2 {
			line, err := strconv.Atoi(split[1])
			if err != nil {
				continue
			}

			filters = append(filters, database.LineFilter(split[0], line))
		} else {
			filters = append(filters, database.PathFilter(split[0]))
		}
	}

	filter := func(node database.Node) bool {
		return len(filters) == 0 || slices.ContainsFunc(filters, func(f database.FilterFunc) bool {
			return f(node)
		})
	}

	var output strings.Builder
	feedbackCount := 0

	for _, program := range programs {
		_, err := fmt.Fprintf(os.Stderr, "Checking %s...", program.Name)
		if err != nil {
			panic(err)
		}

		start := time.Now()

		unit := driver.MakeUnit()
		err = driver.Check(context.Background(), unit, program)
		if err != nil {
			return output.String(), err
		}

		duration := time.Since(start)

		_, err = fmt.Fprintf(os.Stderr, " done (%dms)\n", duration.Milliseconds())
		if err != nil {
			panic(err)
		}

		if cmd.Facts {
			_, err := fmt.Fprintln(&output, colors.Title("Facts:"))
			if err != nil {
				panic(err)
			}

			unit.Db.Write(&output, filter)
		}

		feedbackCount += driver.WriteFeedback(unit.Db, filter, cmd.FilterFeedback, &output)
	}

	if feedbackCount > 0 {
		return output.String(), fmt.Errorf("check failed with %d feedback item(s)", feedbackCount)
	}

	return output.String(), nil
}
