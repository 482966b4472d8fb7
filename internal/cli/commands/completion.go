package commands

import (
	"context"

	"github.com/leapstack-labs/freebies/pkg/core"
	"github.com/spf13/cobra"
)

// Shell completion for entity arguments. Errors yield no suggestions.

func completeCompanies(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	return completeNames(cmd, args, 0, func(ctx context.Context, repo core.Repository) ([]string, error) {
		companies, err := repo.ListCompanies(ctx)
		names := make([]string, 0, len(companies))
		for _, c := range companies {
			names = append(names, c.Name)
		}
		return names, err
	})
}

func completeDevs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	return completeNames(cmd, args, 0, devNames)
}

// completeGiveAway completes <freebie> <from-dev> <to-dev>.
func completeGiveAway(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeNames(cmd, args, 0, freebieItems)
	case 1, 2:
		return completeNames(cmd, args, len(args), devNames)
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeFreebies(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	return completeNames(cmd, args, 0, freebieItems)
}

func devNames(ctx context.Context, repo core.Repository) ([]string, error) {
	devs, err := repo.ListDevs(ctx)
	names := make([]string, 0, len(devs))
	for _, d := range devs {
		names = append(names, d.Name)
	}
	return names, err
}

func freebieItems(ctx context.Context, repo core.Repository) ([]string, error) {
	freebies, err := repo.ListFreebies(ctx)
	items := make([]string, 0, len(freebies))
	for _, f := range freebies {
		items = append(items, f.ItemName)
	}
	return items, err
}

// completeNames suggests names while the argument at position pos is being typed.
func completeNames(
	cmd *cobra.Command,
	args []string,
	pos int,
	list func(context.Context, core.Repository) ([]string, error),
) ([]string, cobra.ShellCompDirective) {
	if len(args) != pos {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cmdCtx, cleanup, err := NewReadOnlyCommandContext(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	names, err := list(ctx, cmdCtx.Engine.Store())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
