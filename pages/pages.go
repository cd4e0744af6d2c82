package pages

// Index is formatted with the running release
var Index = `
<!DOCTYPE html>
<html>
<head>
    <title>musicmeta</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        code {
            background: #f4f4f4;
            padding: 2px 4px;
        }
    </style>
</head>
<body>
    <h1>musicmeta</h1>
    <p>Amazon Music metadata from public pages. Release <code>%s</code></p>
    <h2>Endpoints</h2>
    <ul>
        <li><code>GET /tracks/:id</code></li>
        <li><code>GET /albums/:id</code></li>
        <li><code>GET /artists/:id</code></li>
        <li><code>GET /playlists/:id</code></li>
        <li><code>GET /user-playlists/:id</code></li>
        <li><code>GET /resolve?url=</code></li>
        <li><code>GET /parse?url=</code></li>
        <li><code>GET /search?q=&amp;limit=</code></li>
        <li><a href="/healthz">/healthz</a></li>
        <li><a href="/metrics">/metrics</a></li>
    </ul>
</body>
</html>`
