// gotf_inspect prints what a TensorFlow C library installation provides:
// runtime version, registered ops and their schemas, visible devices, and
// the ops contributed by plugin libraries.
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/gotf/protos"
	"github.com/gomlx/gotf/tf"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagVersion = flag.Bool("version", false, "Print the runtime version.")
	flagOps     = flag.Bool("ops", false, "List every op registered in the runtime.")
	flagOp      = flag.String("op", "", "Print the full definition of the given op, e.g. -op=MatMul.")
	flagDevices = flag.Bool("devices", false, "List the devices the runtime can execute on.")
	flagLoad    = flag.String("load", "", "Load the given plugin library and list the ops it contributes. "+
		"Combined with -ops or -op, the plugin is loaded first, so its ops are included.")
)

func main() {
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %q. See 'gotf_inspect -help'.", flag.Args())
		os.Exit(1)
	}
	if err := tf.Load(); err != nil {
		// The message already carries installation guidance.
		klog.Errorf("%v", err)
		os.Exit(1)
	}

	if !*flagVersion && !*flagOps && *flagOp == "" && !*flagDevices && *flagLoad == "" {
		// Nothing selected: print a quick overview.
		*flagVersion = true
		*flagDevices = true
	}

	if *flagVersion {
		fmt.Printf("TensorFlow %s\n", tf.Version())
	}
	if *flagLoad != "" {
		reportPlugin(*flagLoad)
	}
	if *flagOps {
		list := must.M1(tf.RegisteredOpList())
		reportOps(fmt.Sprintf("%s registered ops", humanize.Comma(int64(list.Len()))), list.Ops)
	}
	if *flagOp != "" {
		reportOneOp(*flagOp)
	}
	if *flagDevices {
		reportDevices()
	}
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				// Headers added with Table.Headers().
				s = headerRowStyle
				return
			}
			switch {
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

func reportPlugin(path string) {
	list, err := tf.LoadLibrary(path)
	if err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
	reportOps(fmt.Sprintf("%d ops contributed by %s", list.Len(), path), list.Ops)
}

func reportOps(title string, ops []*protos.OpDef) {
	fmt.Println(titleStyle.Render(title))
	table := newPlainTable(true)
	table.Headers("Op", "Inputs", "Outputs", "Attrs", "Stateful")

	sorted := slices.Clone(ops)
	slices.SortFunc(sorted, func(a, b *protos.OpDef) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, op := range sorted {
		stateful := ""
		if op.IsStateful {
			stateful = "yes"
		}
		table.Row(op.Name, argsString(op.InputArgs), argsString(op.OutputArgs),
			strconv.Itoa(len(op.Attrs)), stateful)
	}
	fmt.Println(table.Render())
}

func reportOneOp(name string) {
	list := must.M1(tf.RegisteredOpList())
	op := list.Find(name)
	if op == nil {
		klog.Errorf("Op %q is not registered in this runtime. See 'gotf_inspect -ops' for the full list.", name)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render(op.Name))
	table := newPlainTable(false)
	if op.Summary != "" {
		table.Row("summary", op.Summary)
	}
	table.Row("inputs", argsString(op.InputArgs))
	table.Row("outputs", argsString(op.OutputArgs))
	flags := opFlags(op)
	if len(flags) > 0 {
		table.Row("flags", strings.Join(flags, ", "))
	}
	if op.Deprecation != nil {
		table.Row("deprecated", fmt.Sprintf("since graph version %d: %s",
			op.Deprecation.Version, op.Deprecation.Explanation))
	}
	fmt.Println(table.Render())

	if len(op.Attrs) > 0 {
		table = newPlainTable(true)
		table.Headers("Attr", "Type", "Default", "Constraints")
		for _, attr := range op.Attrs {
			table.Row(attr.Name, attr.Type, defaultString(attr), constraintsString(attr))
		}
		fmt.Println(table.Render())
	}
}

func reportDevices() {
	ctx := must.M1(tf.NewContext())
	defer ctx.Finalize()
	devices := must.M1(tf.ListDevices(ctx))

	fmt.Println(titleStyle.Render("Devices"))
	table := newPlainTable(true)
	table.Headers("#", "Type", "Name", "Memory")
	for _, device := range devices {
		memory := ""
		if device.MemoryBytes > 0 {
			memory = humanize.Bytes(uint64(device.MemoryBytes))
		}
		table.Row(strconv.Itoa(device.Index), string(device.Type), device.Name, memory)
	}
	fmt.Println(table.Render())
}

// argsString summarizes an argument list like "a:T, b:T" or "inputs:N*T".
func argsString(args []*protos.ArgDef) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, argString(arg))
	}
	return strings.Join(parts, ", ")
}

func argString(arg *protos.ArgDef) string {
	var typ string
	switch {
	case arg.TypeAttr != "":
		typ = arg.TypeAttr
	case arg.TypeListAttr != "":
		typ = arg.TypeListAttr
	case arg.Type != protos.InvalidDataType:
		typ = arg.Type.String()
	}
	if arg.NumberAttr != "" {
		typ = arg.NumberAttr + "*" + typ
	}
	if arg.IsRef {
		typ = "Ref(" + typ + ")"
	}
	if typ == "" {
		return arg.Name
	}
	return arg.Name + ":" + typ
}

func opFlags(op *protos.OpDef) []string {
	var flags []string
	if op.IsStateful {
		flags = append(flags, "stateful")
	}
	if op.IsCommutative {
		flags = append(flags, "commutative")
	}
	if op.IsAggregate {
		flags = append(flags, "aggregate")
	}
	if op.AllowsUninitializedInput {
		flags = append(flags, "allows uninitialized input")
	}
	return flags
}

// defaultString renders an attribute's default value guided by its declared
// type, since a zero scalar is indistinguishable from unset on the wire.
func defaultString(attr *protos.AttrDef) string {
	value := attr.DefaultValue
	if value == nil {
		return ""
	}
	switch attr.Type {
	case "string":
		return strconv.Quote(string(value.S))
	case "int":
		return strconv.FormatInt(value.I, 10)
	case "float":
		return strconv.FormatFloat(float64(value.F), 'g', -1, 32)
	case "bool":
		return strconv.FormatBool(value.B)
	case "type":
		return value.Type.String()
	default:
		if value.List != nil {
			return listString(value.List)
		}
		return "-" // shape- or tensor-valued, not decoded
	}
}

func listString(list *protos.AttrListValue) string {
	var parts []string
	for _, s := range list.S {
		parts = append(parts, strconv.Quote(string(s)))
	}
	for _, i := range list.I {
		parts = append(parts, strconv.FormatInt(i, 10))
	}
	for _, f := range list.F {
		parts = append(parts, strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	for _, b := range list.B {
		parts = append(parts, strconv.FormatBool(b))
	}
	for _, dataType := range list.Type {
		parts = append(parts, dataType.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func constraintsString(attr *protos.AttrDef) string {
	var parts []string
	if attr.AllowedValues != nil && attr.AllowedValues.List != nil {
		parts = append(parts, "one of "+listString(attr.AllowedValues.List))
	}
	if attr.HasMinimum {
		parts = append(parts, fmt.Sprintf(">= %d", attr.Minimum))
	}
	return strings.Join(parts, ", ")
}
