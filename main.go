package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/pikechu/MidiReader/analysis"
	"github.com/pikechu/MidiReader/midi"
	"github.com/pikechu/MidiReader/scan"
	"github.com/pkg/errors"
)

const usage = `Usage
	midireader dump input.mid [--yaml]
	midireader summary input.mid [--json]
	midireader scan input.bin [--align 8]
	midireader serve [--listen [::]:8070]`

func newArgs() Args {
	var args = NewArgs(usage)

	args.AddStringArg([]string{"-c", "--config"}, "YAML config file", "")
	args.AddFlagArg([]string{"-s", "--strict"}, "Fail on bytes after the last track")
	args.AddChoiceArg([]string{"--zero-tempo"}, "What to do with a tempo of 0", "fail", []string{"fail", "default"})
	args.AddFlagArg([]string{"--yaml"}, "Write the dump as YAML")
	args.AddFlagArg([]string{"--json"}, "Write the summary as JSON")
	args.AddIntegerArg([]string{"-a", "--align"}, "Only look for midi files at multiples of this offset", 0, 0, 1<<20)
	args.AddStringArg([]string{"-l", "--listen"}, "Address for serve", "")
	args.AddFlagArg([]string{"-v", "--verbose"}, "Verbose logging")
	args.AddFlagArg([]string{"-h", "--help"}, "Show this message")

	return args
}

// resolveConfig loads the config file and applies command line overrides.
func resolveConfig(args *Args, rawArgs []string, named map[string]interface{}) (*Config, error) {
	config, err := LoadConfig(named["--config"].(string))

	if err != nil {
		return nil, err
	}

	if named["--strict"].(bool) {
		config.Strict = true
	}

	if args.WasSet(rawArgs, "--zero-tempo") {
		config.ZeroTempo = named["--zero-tempo"].(string)
	}

	if args.WasSet(rawArgs, "--align") {
		config.ScanAlignment = int(named["--align"].(int64))
	}

	if listen := named["--listen"].(string); listen != "" {
		config.Listen = listen
	}

	return config, config.Validate()
}

func decodeFile(path string, config *Config) (*midi.File, error) {
	input, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer input.Close()

	file, err := midi.ReadMidi(input, config.DecodeOptions()...)

	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}

	return file, nil
}

func runDump(output io.Writer, path string, config *Config, asYaml bool) error {
	file, err := decodeFile(path, config)

	if err != nil {
		return err
	}

	if asYaml {
		return writeYaml(output, newFileView(file))
	}

	writeDump(output, file)

	return nil
}

func runSummary(output io.Writer, path string, config *Config, asJSON bool) error {
	file, err := decodeFile(path, config)

	if err != nil {
		return err
	}

	var summary = analysis.Summarize(file)

	if asJSON {
		var encoder = json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	return writeYaml(output, summary)
}

func runScan(output io.Writer, path string, config *Config) error {
	data, err := ioutil.ReadFile(path)

	if err != nil {
		return err
	}

	var found = scan.FindMidi(data, scan.Options{
		Alignment: config.ScanAlignment,
		Decode:    config.DecodeOptions(),
	})

	for _, song := range found {
		var summary = analysis.Summarize(song.File)

		fmt.Fprintf(output, "offset=0x%X size=%d format=%s tracks=%d duration=%.2fs\n",
			song.Offset, song.Size, summary.Format, len(summary.Tracks), float64(summary.DurationMicros)/1000000)
	}

	log.Println(fmt.Sprintf("Found %d songs", len(found)))

	return nil
}

func main() {
	var args = newArgs()

	named, ordered, errs := args.Parse(os.Args[1:])

	if len(errs) != 0 {
		for _, err := range errs {
			log.Println(err.Error())
		}

		log.Fatal(args.CreateHelpMessage())
	}

	if named["--help"].(bool) || len(ordered) == 0 {
		fmt.Println(args.CreateHelpMessage())
		return
	}

	config, err := resolveConfig(&args, os.Args[1:], named)

	if err != nil {
		log.Fatal(err)
	}

	var command = ordered[0]

	if command == "serve" {
		err = serve(config, named["--verbose"].(bool))
	} else if len(ordered) < 2 {
		log.Fatal(args.CreateHelpMessage())
	} else if command == "dump" {
		err = runDump(os.Stdout, ordered[1], config, named["--yaml"].(bool))
	} else if command == "summary" {
		err = runSummary(os.Stdout, ordered[1], config, named["--json"].(bool))
	} else if command == "scan" {
		err = runScan(os.Stdout, ordered[1], config)
	} else {
		log.Fatal(fmt.Sprintf("Unknown command '%s'\n%s", command, args.CreateHelpMessage()))
	}

	if err != nil {
		log.Fatal(err)
	}
}
