// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package sei is a client for the SEI web service (controlador_ws.php?servico=sei).

Every operation goes through [Client.Invoke], which adds the session
identification (SiglaSistema, IdentificacaoServico and, for unit-scoped
operations, the IdUnidade of the session unit), logs the request and the
response, and returns the decoded result unmodified. Nothing is retried.

# Sessions

A client is bound to one calling system and one unit at construction:

	client, err := sei.NewClient(ctx, sei.Config{
	    Ambiente:     "homologacao",
	    SiglaSistema: "InovaFiscaliza",
	    ChaveAPI:     os.Getenv("SEI_HM_API_KEY"),
	    SiglaUnidade: "FISF",
	})

# Identifier resolution

Units, users, document types and countries are addressed by acronym, login
or name. The client lists each directory once, on first use, and keeps the
table for its lifetime. [Client.Refresh] drops tables explicitly.

	ok, err := client.AtribuirProcesso(ctx, "53500.000124/2024-04", "rsilva", sei.Sim)

# Validation

Flags accept only "S" and "N", email addresses must look like
local@domain.tld, and enumerations are checked against their closed sets.
Invalid input fails with an error matching [ErrValidation] before any
network call.

# Results

Mutations report success only when the service returns the exact string
"1" (see [IsSuccess]). Queries return [Record] values decoded from the
SOAP payload.
*/
package sei
