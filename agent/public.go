package agent

import (
	"context"
	"fmt"

	"github.com/moex-tools/bond"
	"github.com/moex-tools/bond/docs"
	"github.com/moex-tools/bond/iss"
	"github.com/moex-tools/bond/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.
			The user is here for the Russian bond market: instrument cards, payment schedules,
			and yields to maturity.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			Bonds are identified by ISIN or by the exchange trading code (SECID); pass along
			whichever the user gave, the experts accept both.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the expert grounded in Google Search, for everything
// the exchange feed does not carry.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a fixed income analyst,
		very well aware of the Russian bond market, its issuers and the latest
		news about them. Ask the Analyst whenever you need recent or grounding
		information: defaults, rating actions, offers being announced.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in fixed income, you can search and find about anything related to
			bond issuers, ratings, coupons and offers. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewQuant returns the expert wired to the exchange feed and the yield
// machinery. Everything factual about a bond comes from here.
func NewQuant() *Expert {

	lib := []Function{Resolve, BondCard, CashFlows, Yield}

	return &Expert{
		Name: "Quant",
		Description: `This is the Quant. He reads the Moscow Exchange feed and runs the yield
		computations. Ask him for instrument cards, coupon and amortization schedules,
		and yields to maturity at a given price and purchase date.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a fixed income quant with first hand access to the Moscow Exchange
				data feed through the Tools. Use them for every factual claim about a bond:
				never guess a price, a schedule or a yield.

				Bonds are identified by ISIN or by the trading code (SECID), the tools
				accept both. Answers come back as markdown tables, pass them through.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// fail wraps an error into a function response; the model reads it and
// decides what to do next.
func fail(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func succeed(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

// codeParam is the parameter schema shared by the single-argument tools.
func codeParam() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"code": {
				Type:        genai.TypeString,
				Description: "The bond's ISIN or exchange trading code (SECID).",
			},
		},
		Required: []string{"code"},
	}
}

// Resolve translates a user-supplied code into both exchange identifiers.
var Resolve = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Resolve",
		Description: `Resolve looks a bond up by any code and returns both its
		exchange trading code (SECID) and its ISIN.`,
		Parameters: codeParam(),
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The SECID and the ISIN of the bond.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		secid, err := parseCode(args)
		if err != nil {
			return fail(id, "Resolve", err)
		}
		isin, err := iss.Resolve(secid, iss.SecIDToISIN)
		if err != nil {
			return fail(id, "Resolve", err)
		}
		return succeed(id, "Resolve", fmt.Sprintf("SECID: %s\nISIN: %s", secid, isin))
	},
}

// BondCard renders the instrument card.
var BondCard = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "BondCard",
		Description: `BondCard returns the instrument card of a bond: names, face value,
		coupon, maturity, the previous session close and the accrued interest.`,
		Parameters: codeParam(),
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown table of the bond's parameters, labeled in Russian.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		secid, err := parseCode(args)
		if err != nil {
			return fail(id, "BondCard", err)
		}
		b, err := iss.Fetch(secid)
		if err != nil {
			return fail(id, "BondCard", err)
		}
		return succeed(id, "BondCard", renderer.BondMarkdown(b))
	},
}

// CashFlows renders the full payment schedule.
var CashFlows = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "CashFlows",
		Description: `CashFlows returns the full payment schedule of a bond: every coupon,
		amortization and offer, one row per date. A dash marks an amount that is not
		fixed yet.`,
		Parameters: codeParam(),
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown table of the payment schedule, one row per date.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		secid, err := parseCode(args)
		if err != nil {
			return fail(id, "CashFlows", err)
		}
		out, err := cashFlows(secid)
		if err != nil {
			return fail(id, "CashFlows", err)
		}
		return succeed(id, "CashFlows", out)
	},
}

// Yield computes the yield to maturity.
var Yield = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Yield",
		Description: `Yield computes the yield to maturity of a bond bought at a clean price
		on a purchase date. Without a price the weighted average price of the previous
		session is used. It refuses bonds with a put or call offer ahead and floaters
		whose coupons are not fixed yet.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"code": {
					Type:        genai.TypeString,
					Description: "The bond's ISIN or exchange trading code (SECID).",
				},
				"price": {
					Type: genai.TypeNumber,
					Description: `The clean price in percent of face value, e.g. 98.5.
					The previous session's weighted average price is the default.`,
				},
				"date": {
					Type: genai.TypeString,
					Description: `The purchase date. Today is the default.
					Otherwise it uses a flexible date format based on YYYY-MM-DD:

					` + must(docs.GetTopic("dates")),
				},
			},
			Required: []string{"code"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown table of the purchase terms and the resulting yield to maturity.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		secid, err := parseCode(args)
		if err != nil {
			return fail(id, "Yield", err)
		}
		price, err := parsePrice(args)
		if err != nil {
			return fail(id, "Yield", err)
		}
		date, err := parseDate(args)
		if err != nil {
			return fail(id, "Yield", err)
		}
		out, err := yieldReport(secid, price, date)
		if err != nil {
			return fail(id, "Yield", err)
		}
		return succeed(id, "Yield", out)
	},
}

// private implementation behind CashFlows.
func cashFlows(secid string) (string, error) {
	b, err := iss.Description(secid)
	if err != nil {
		return "", err
	}
	coupons, amortizations, offers, err := iss.Bondization(secid)
	if err != nil {
		return "", err
	}
	return renderer.ScheduleMarkdown(b.ShortName, bond.MergeEvents(coupons, amortizations, offers)), nil
}

// private implementation behind Yield.
func yieldReport(secid string, price decimal.NullDecimal, on bond.Date) (string, error) {
	b, err := iss.Fetch(secid)
	if err != nil {
		return "", err
	}
	if !price.Valid {
		price = b.PrevWAPrice
	}
	if !price.Valid {
		return "", fmt.Errorf("%s did not trade on the previous session, a price is required", secid)
	}
	if !b.FaceValue.Valid {
		return "", fmt.Errorf("%s has no face value on its card", secid)
	}

	coupons, amortizations, offers, err := iss.Bondization(secid)
	if err != nil {
		return "", err
	}
	schedule, err := bond.BuildSchedule(coupons, amortizations, offers)
	if err != nil {
		return "", err
	}

	terms := bond.Terms{
		FaceValue:    b.FaceValue.Decimal,
		PurchaseDate: on,
	}
	if b.AccruedInterest.Valid {
		terms.AccruedInterest = b.AccruedInterest.Decimal
	}
	ytm, err := bond.SolveYield(schedule, terms, price.Decimal)
	if err != nil {
		return "", err
	}
	return renderer.YieldMarkdown(b, terms, price.Decimal, ytm), nil
}

func parseCode(args map[string]any) (string, error) {
	raw, hasCode := args["code"]
	if !hasCode {
		return "", fmt.Errorf("argument 'code' is required")
	}
	code, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument 'code' is not a string as expected but %T", raw)
	}
	return iss.SecID(code)
}

func parsePrice(args map[string]any) (decimal.NullDecimal, error) {
	raw, hasPrice := args["price"]
	if !hasPrice {
		return decimal.NullDecimal{}, nil
	}
	switch v := raw.(type) {
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v)), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("argument 'price' is not a number: %q", v)
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return decimal.NullDecimal{}, fmt.Errorf("argument 'price' is not a number as expected but %T", raw)
	}
}

func parseDate(args map[string]any) (bond.Date, error) {
	raw, hasDate := args["date"]
	if !hasDate {
		return bond.Today(), nil
	}
	str, ok := raw.(string)
	if !ok {
		return bond.Today(), fmt.Errorf("argument 'date' is not a string as expected but %T", raw)
	}

	date, err := bond.ParseDate(str)
	if err != nil {
		return bond.Today(), fmt.Errorf("argument 'date' must be a valid date got %q. Below is the doc about the date format\n\n%s", str, must(docs.GetTopic("dates")))
	}
	return date, nil
}
