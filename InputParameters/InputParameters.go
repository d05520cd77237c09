package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/convection/model_problems/Convection2D"
)

// Sampling modes of a campaign
const (
	SamplingGrid   = "grid"   // log equidistributed, Count points per axis
	SamplingRandom = "random" // log uniform, Count points
	SamplingList   = "list"   // the explicit Samples
)

type Range struct {
	Min float64 `json:"Min"`
	Max float64 `json:"Max"`
}

// Parameters of a sampling campaign obtained from the YAML input file
type InputParameters struct {
	Title    string                 `json:"Title"`
	Grashof  *Range                 `json:"Grashof,omitempty"`
	Prandtl  *Range                 `json:"Prandtl,omitempty"`
	Sampling string                 `json:"Sampling"`
	Count    int                    `json:"Count"`
	Seed     uint64                 `json:"Seed"`
	Samples  [][]float64            `json:"Samples,omitempty"` // (Gr, Pr) pairs
	Outputs  []int                  `json:"Outputs"`
	Model    map[string]interface{} `json:"Model,omitempty"` // Overrides of the model configuration keys
}

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Sampling == "" {
		ip.Sampling = SamplingGrid
	}
	ip.Sampling = strings.ToLower(ip.Sampling)
	if len(ip.Outputs) == 0 {
		ip.Outputs = []int{Convection2D.OutputFlux}
	}
	return
}

// ParameterSpace returns the bounds of the campaign, missing ranges fall back
// to the model's default space
func (ip *InputParameters) ParameterSpace() (ps Convection2D.ParameterSpace, err error) {
	ps = Convection2D.NewParameterSpace()
	if ip.Grashof != nil {
		ps.Min.Grashof, ps.Max.Grashof = ip.Grashof.Min, ip.Grashof.Max
	}
	if ip.Prandtl != nil {
		ps.Min.Prandtl, ps.Max.Prandtl = ip.Prandtl.Min, ip.Prandtl.Max
	}
	err = ps.Validate()
	return
}

// Parameters expands the sampling description into the list of parameters
// to evaluate
func (ip *InputParameters) Parameters() (mus []Convection2D.Parameter, err error) {
	var ps Convection2D.ParameterSpace
	if ps, err = ip.ParameterSpace(); err != nil {
		return
	}
	switch ip.Sampling {
	case SamplingGrid:
		if ip.Count < 1 {
			err = fmt.Errorf("grid sampling needs Count >= 1, got %d", ip.Count)
			return
		}
		mus = ps.LogEquidistributed(ip.Count)
	case SamplingRandom:
		if ip.Count < 1 {
			err = fmt.Errorf("random sampling needs Count >= 1, got %d", ip.Count)
			return
		}
		mus = ps.LogRandom(ip.Count, ip.Seed)
	case SamplingList:
		if len(ip.Samples) == 0 {
			err = fmt.Errorf("list sampling needs at least one entry in Samples")
			return
		}
		for i, s := range ip.Samples {
			var mu Convection2D.Parameter
			if mu, err = Convection2D.NewParameter(s); err != nil {
				err = fmt.Errorf("sample %d: %w", i, err)
				return
			}
			mus = append(mus, mu)
		}
	default:
		err = fmt.Errorf("unknown sampling mode %q, want one of %s, %s, %s",
			ip.Sampling, SamplingGrid, SamplingRandom, SamplingList)
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if ip.Grashof != nil {
		fmt.Printf("[%g, %g]\t\t= Grashof\n", ip.Grashof.Min, ip.Grashof.Max)
	}
	if ip.Prandtl != nil {
		fmt.Printf("[%g, %g]\t\t= Prandtl\n", ip.Prandtl.Min, ip.Prandtl.Max)
	}
	fmt.Printf("[%s]\t\t\t= Sampling\n", ip.Sampling)
	fmt.Printf("[%d]\t\t\t\t= Count\n", ip.Count)
	fmt.Printf("[%d]\t\t\t\t= Seed\n", ip.Seed)
	fmt.Printf("%v\t\t\t\t= Outputs\n", ip.Outputs)
	keys := make([]string, 0, len(ip.Model))
	for k := range ip.Model {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Model[%s] = %v\n", key, ip.Model[key])
	}
}
