package command

import "encoding/json"

// jsonEntry/jsonAccountData/jsonTransactionData/jsonCommandMap give CommandMap
// a stable wire shape for the command_map column (spec §3, §8 round-trip law).
type jsonEntry struct {
	AccountAddress string `json:"account_address"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

type jsonAccountData struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Type        string `json:"type"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type jsonTransactionData struct {
	Status  string      `json:"status"`
	Entries []jsonEntry `json:"entries"`
}

type jsonCommandMap struct {
	Action             Action               `json:"action"`
	InstanceAddress    string               `json:"instance_address"`
	Source             string               `json:"source"`
	SourceIdempk       string               `json:"source_idempk"`
	UpdateIdempk       string               `json:"update_idempk,omitempty"`
	UpdateSource       string               `json:"update_source,omitempty"`
	AccountPayload     *jsonAccountData     `json:"account_payload,omitempty"`
	TransactionPayload *jsonTransactionData `json:"transaction_payload,omitempty"`
}

// MarshalJSON gives CommandMap a stable, tagged-union wire shape.
func (c *CommandMap) MarshalJSON() ([]byte, error) {
	out := jsonCommandMap{
		Action:          c.Action,
		InstanceAddress: c.InstanceAddress,
		Source:          c.Source,
		SourceIdempk:    c.SourceIdempk,
		UpdateIdempk:    c.UpdateIdempk,
		UpdateSource:    c.UpdateSource,
	}

	if c.AccountPayload != nil {
		out.AccountPayload = &jsonAccountData{
			Name:        c.AccountPayload.Name,
			Address:     c.AccountPayload.Address,
			Type:        c.AccountPayload.Type,
			Currency:    c.AccountPayload.Currency,
			Description: c.AccountPayload.Description,
		}
	}

	if c.TransactionPayload != nil {
		entries := make([]jsonEntry, len(c.TransactionPayload.Entries))
		for i, e := range c.TransactionPayload.Entries {
			entries[i] = jsonEntry{AccountAddress: e.AccountAddress, Amount: e.Amount, Currency: e.Currency}
		}

		out.TransactionPayload = &jsonTransactionData{Status: c.TransactionPayload.Status, Entries: entries}
	}

	return json.Marshal(out)
}

// UnmarshalJSON restores a CommandMap from its stored wire shape.
func (c *CommandMap) UnmarshalJSON(data []byte) error {
	var in jsonCommandMap
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c.Action = in.Action
	c.InstanceAddress = in.InstanceAddress
	c.Source = in.Source
	c.SourceIdempk = in.SourceIdempk
	c.UpdateIdempk = in.UpdateIdempk
	c.UpdateSource = in.UpdateSource

	if in.AccountPayload != nil {
		c.AccountPayload = &AccountData{
			Name:        in.AccountPayload.Name,
			Address:     in.AccountPayload.Address,
			Type:        in.AccountPayload.Type,
			Currency:    in.AccountPayload.Currency,
			Description: in.AccountPayload.Description,
		}
	}

	if in.TransactionPayload != nil {
		entries := make([]EntryData, len(in.TransactionPayload.Entries))
		for i, e := range in.TransactionPayload.Entries {
			entries[i] = EntryData{AccountAddress: e.AccountAddress, Amount: e.Amount, Currency: e.Currency}
		}

		c.TransactionPayload = &TransactionData{Status: in.TransactionPayload.Status, Entries: entries}
	}

	return nil
}
