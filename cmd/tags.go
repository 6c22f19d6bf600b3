package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/yt-audio-grabber/internal/app"
	"github.com/oshokin/yt-audio-grabber/internal/service/tags"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tagsCmd = &cobra.Command{
		Use:   "tags",
		Short: "Edit the tags of downloaded audio files",
		Long: `Read and write the artist, album, title and track number of audio files.

Supported files: .opus, .mp3, .m4a and .flac. A directory argument covers every
supported file directly inside it, sorted by name.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tagsShowCmd = &cobra.Command{
		Use:   "show {dir|file}",
		Short: "Print the tags of every file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteTagsShowCommand(cmd.Context(), appConfig, args[0])
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tagsSetCmd = &cobra.Command{
		Use:   "set {dir|file}",
		Short: "Change the given fields of every file and save each one",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteTagsSetCommand(cmd.Context(), appConfig, args[0], tagEditsFromFlags(cmd.Flags()))
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tagsApplyCmd = &cobra.Command{
		Use:   "apply {dir|file}",
		Short: "Set the same artist and album on every file",
		Long: `Set the same artist and album on every file.
Both fields are written, so an omitted --artist or --album clears that field.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteTagsApplyCommand(cmd.Context(), appConfig, args[0], commonFieldsFromFlags(cmd.Flags()))
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tagsAutoFillCmd = &cobra.Command{
		Use:   "autofill {dir|file}",
		Short: "Derive artist, title and track number from the file names",
		Long: `Derive the tags from file names of the form "Artist - Title".
The track number is the position of the file in the sort order, which can be
changed with --order. The common --artist and --album values win over the names.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			flags := cmd.Flags()
			order, _ := flags.GetStringSlice("order")
			force, _ := flags.GetBool("force")

			app.ExecuteTagsAutoFillCommand(cmd.Context(), appConfig, args[0], commonFieldsFromFlags(flags), order, force)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	tagsCoverCmd = &cobra.Command{
		Use:   "cover {dir|file} {image path or URL}",
		Short: "Embed a local or remote image as the front cover of every file",
		Args:  cobra.ExactArgs(2), //nolint:mnd // Target and image.
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteTagsCoverCommand(cmd.Context(), appConfig, args[0], args[1])
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	for _, c := range []*cobra.Command{tagsSetCmd, tagsApplyCmd, tagsAutoFillCmd} {
		c.Flags().String("artist", "", "artist")
		c.Flags().String("album", "", "album")
	}

	tagsSetCmd.Flags().String("title", "", "title")
	tagsSetCmd.Flags().String("track", "", "track number")

	tagsAutoFillCmd.Flags().StringSlice("order", nil, "file names in the wanted track order")
	tagsAutoFillCmd.Flags().Bool("force", false, "overwrite edited tags without asking")

	tagsCmd.AddCommand(tagsShowCmd, tagsSetCmd, tagsApplyCmd, tagsAutoFillCmd, tagsCoverCmd)

	rootCmd.AddCommand(tagsCmd)
}

// tagEditsFromFlags returns the fields that were given on the command line.
func tagEditsFromFlags(flags *pflag.FlagSet) *app.TagEdits {
	changed := func(name string) *string {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			return nil
		}

		value := flag.Value.String()

		return &value
	}

	return &app.TagEdits{
		Artist: changed("artist"),
		Album:  changed("album"),
		Title:  changed("title"),
		Track:  changed("track"),
	}
}

// commonFieldsFromFlags returns the --artist and --album values.
func commonFieldsFromFlags(flags *pflag.FlagSet) tags.CommonFields {
	artist, _ := flags.GetString("artist")
	album, _ := flags.GetString("album")

	return tags.CommonFields{Artist: artist, Album: album}
}
